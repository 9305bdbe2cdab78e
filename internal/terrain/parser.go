// Parse and Named (named.go) read the §6 template text format into an
// ordered []Command list, and provide a small set of named built-in
// heightmap templates (SPEC_FULL.md §D supplement) as an alternative to an
// externally supplied file.
package terrain

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"worldforge/internal/pipeline"
)

// Parse reads the line-oriented template format (§6): UTF-8, one command
// per line, `#` comments, blank lines ignored, whitespace-separated
// arguments where a range argument is written `lo..hi`. A parse error
// identifies the 1-based source line and stops before producing a command
// vector — the engine never runs a half-parsed template.
func Parse(src string) ([]Command, *pipeline.Error) {
	var cmds []Command
	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		name := fields[0]
		args := fields[1:]

		cmd, perr := parseCommand(name, args, lineNo)
		if perr != nil {
			return nil, perr
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func parseCommand(name string, args []string, line int) (Command, *pipeline.Error) {
	switch strings.ToLower(name) {
	case "add":
		v, err := need(args, 1, line)
		if err != nil {
			return nil, err
		}
		return Add{Value: v[0]}, nil
	case "multiply":
		v, err := need(args, 1, line)
		if err != nil {
			return nil, err
		}
		return Multiply{Factor: v[0]}, nil
	case "smooth":
		v, err := need(args, 1, line)
		if err != nil {
			return nil, err
		}
		return Smooth{Iterations: int(v[0])}, nil
	case "normalize":
		if len(args) != 0 {
			return nil, pipeline.TemplateParseError(line, "Normalize takes no arguments")
		}
		return Normalize{}, nil
	case "setsealevel":
		v, err := need(args, 1, line)
		if err != nil {
			return nil, err
		}
		return SetSeaLevel{LandFraction: v[0] / 100}, nil
	case "mask":
		if len(args) != 2 {
			return nil, pipeline.TemplateParseError(line, "Mask requires mode and strength")
		}
		strength, err := parseFloat(args[1], line)
		if err != nil {
			return nil, err
		}
		mode := MaskMode(strings.ToLower(args[0]))
		switch mode {
		case MaskEdgeFade, MaskCenterBoost, MaskRadial:
		default:
			return nil, pipeline.TemplateParseError(line, fmt.Sprintf("unknown mask mode %q", args[0]))
		}
		return Mask{Mode: mode, Strength: strength}, nil
	case "invert":
		if len(args) != 2 {
			return nil, pipeline.TemplateParseError(line, "Invert requires axis and probability")
		}
		p, err := parseFloat(args[1], line)
		if err != nil {
			return nil, err
		}
		axis := InvertAxis(strings.ToLower(args[0]))
		if axis != InvertX && axis != InvertY {
			return nil, pipeline.TemplateParseError(line, fmt.Sprintf("unknown invert axis %q", args[0]))
		}
		return Invert{Axis: axis, P: p}, nil
	case "mountain":
		v, err := need(args, 4, line)
		if err != nil {
			return nil, err
		}
		return Mountain{Height: v[0], X: v[1], Y: v[2], Radius: v[3]}, nil
	case "hill":
		count, h, x, y, rad, err := needBlobArgs(args, line)
		if err != nil {
			return nil, err
		}
		return Hill{Count: count, Height: h, X: x, Y: y, Radius: rad}, nil
	case "pit":
		count, h, x, y, rad, err := needBlobArgs(args, line)
		if err != nil {
			return nil, err
		}
		return Pit{Count: count, Height: h, X: x, Y: y, Radius: rad}, nil
	case "range":
		count, h, x, y, length, width, angle, err := needLineArgs(args, line)
		if err != nil {
			return nil, err
		}
		return MountainRange{Count: count, Height: h, X: x, Y: y, Length: length, Width: width, Angle: angle}, nil
	case "trough":
		count, h, x, y, length, width, angle, err := needLineArgs(args, line)
		if err != nil {
			return nil, err
		}
		return Trough{Count: count, Height: h, X: x, Y: y, Length: length, Width: width, Angle: angle}, nil
	case "strait":
		v, err := need(args, 4, line)
		if err != nil {
			return nil, err
		}
		return Strait{Width: v[0], Direction: v[1], Position: v[2], Depth: v[3]}, nil
	default:
		return nil, pipeline.TemplateParseError(line, fmt.Sprintf("unrecognized command %q", name))
	}
}

func needBlobArgs(args []string, line int) (count int, height, x, y, radius Range2, err *pipeline.Error) {
	if len(args) != 5 {
		return 0, Range2{}, Range2{}, Range2{}, Range2{}, pipeline.TemplateParseError(line, "expected count, height-range, x-range, y-range, radius-range")
	}
	n, perr := parseFloat(args[0], line)
	if perr != nil {
		return 0, Range2{}, Range2{}, Range2{}, Range2{}, perr
	}
	h, perr := parseRange(args[1], line)
	if perr != nil {
		return 0, Range2{}, Range2{}, Range2{}, Range2{}, perr
	}
	xr, perr := parseRange(args[2], line)
	if perr != nil {
		return 0, Range2{}, Range2{}, Range2{}, Range2{}, perr
	}
	yr, perr := parseRange(args[3], line)
	if perr != nil {
		return 0, Range2{}, Range2{}, Range2{}, Range2{}, perr
	}
	rr, perr := parseRange(args[4], line)
	if perr != nil {
		return 0, Range2{}, Range2{}, Range2{}, Range2{}, perr
	}
	return int(n), h, xr, yr, rr, nil
}

func needLineArgs(args []string, line int) (count int, height, x, y, length, width, angle Range2, err *pipeline.Error) {
	if len(args) != 7 {
		return 0, Range2{}, Range2{}, Range2{}, Range2{}, Range2{}, Range2{},
			pipeline.TemplateParseError(line, "expected count, height-range, x-range, y-range, length-range, width-range, angle-range")
	}
	vals := make([]Range2, 6)
	n, perr := parseFloat(args[0], line)
	if perr != nil {
		return 0, Range2{}, Range2{}, Range2{}, Range2{}, Range2{}, Range2{}, perr
	}
	for i := 0; i < 6; i++ {
		r, perr := parseRange(args[i+1], line)
		if perr != nil {
			return 0, Range2{}, Range2{}, Range2{}, Range2{}, Range2{}, Range2{}, perr
		}
		vals[i] = r
	}
	return int(n), vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], nil
}

func need(args []string, n int, line int) ([]float64, *pipeline.Error) {
	if len(args) != n {
		return nil, pipeline.TemplateParseError(line, fmt.Sprintf("expected %d argument(s), got %d", n, len(args)))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := parseFloat(a, line)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloat(tok string, line int) (float64, *pipeline.Error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, pipeline.TemplateParseError(line, fmt.Sprintf("invalid number %q", tok))
	}
	return v, nil
}

func parseRange(tok string, line int) (Range2, *pipeline.Error) {
	parts := strings.SplitN(tok, "..", 2)
	if len(parts) == 1 {
		v, err := parseFloat(parts[0], line)
		if err != nil {
			return Range2{}, err
		}
		return Range2{Lo: v, Hi: v}, nil
	}
	lo, err := parseFloat(parts[0], line)
	if err != nil {
		return Range2{}, err
	}
	hi, err := parseFloat(parts[1], line)
	if err != nil {
		return Range2{}, err
	}
	return Range2{Lo: lo, Hi: hi}, nil
}

package solve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/limaJavier/touist/pkg/errors"
	"github.com/limaJavier/touist/pkg/formula"
	"github.com/limaJavier/touist/pkg/sat"
)

type Format string

const (
	FormatAuto    Format = "auto"
	FormatDIMACS  Format = "dimacs"
	FormatFormula Format = "formula"
)

func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(name))); format {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatDIMACS, FormatFormula:
		return format, nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unknown input format %q", name), nil)
	}
}

// DetectFormat picks the format of a file from its extension: .cnf and
// .dimacs are DIMACS, anything else is a formula.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cnf", ".dimacs":
		return FormatDIMACS
	default:
		return FormatFormula
	}
}

// LoadInstance reads the SAT instance stored at path.
func LoadInstance(path string, format Format) (sat.SAT, error) {
	file, err := os.Open(path)
	if err != nil {
		return sat.SAT{}, errors.InvalidInput(fmt.Sprintf("cannot open %s", path), err)
	}
	defer file.Close()

	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}

	switch format {
	case FormatDIMACS:
		instance, err := sat.ParseDIMACS(file)
		if err != nil {
			return sat.SAT{}, errors.InvalidInput(fmt.Sprintf("cannot parse %s", path), err)
		}
		return instance, nil
	case FormatFormula:
		return formula.Translate(file)
	default:
		return sat.SAT{}, errors.InvalidInput(fmt.Sprintf("unknown input format %q", format), nil)
	}
}

package norm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned by ParseKind for unrecognised names.
var ErrUnknownKind = errors.New("unknown normalization kind")

// Kind selects the base normalization function.
type Kind int

const (
	Linear Kind = iota
	Logarithmic
	SymLog
)

var kindNames = map[Kind]string{
	Linear:      "Linear",
	Logarithmic: "Logarithmic",
	SymLog:      "SymLog",
}

// Kinds lists every supported kind in display order.
func Kinds() []Kind {
	return []Kind{Linear, Logarithmic, SymLog}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the display names and the short forms "lin", "log" and
// "symlog", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "lin":
		return Linear, nil
	case "logarithmic", "log":
		return Logarithmic, nil
	case "symlog", "sym-log", "symmetric-log":
		return SymLog, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(strings.ToLower(k.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Params holds the numeric parameters of a base normalization. LinThresh and
// LinScale are only used by SymLog.
type Params struct {
	VMin      float64 `yaml:"vmin"`
	VMax      float64 `yaml:"vmax"`
	LinThresh float64 `yaml:"linthresh,omitempty"`
	LinScale  float64 `yaml:"linscale,omitempty"`
}

package build

import (
	"fmt"
	"os"

	"cminus/tm"

	"github.com/pelletier/go-toml"
)

// tomlProfileFile represents a build profile as it is encoded in TOML
type tomlProfileFile struct {
	Compile *tomlCompile `toml:"compile"`
	Machine *tomlMachine `toml:"machine"`
}

// tomlCompile represents the compilation options of a profile
type tomlCompile struct {
	Emit         string `toml:"emit"`
	OutputPath   string `toml:"output,omitempty"`
	TraceAnalyze bool   `toml:"trace-analyze"`
	TraceCode    bool   `toml:"trace-code"`
	Symtab       bool   `toml:"symtab"`
}

// tomlMachine represents the simulator options of a profile
type tomlMachine struct {
	DataSize int `toml:"data-size"`
	MaxSteps int `toml:"max-steps"`
}

// Emit is the kind of output a build produces
type Emit int

const (
	EmitTM Emit = iota
	EmitLLVM
)

// ParseEmit converts an output kind name to an Emit
func ParseEmit(name string) (Emit, error) {
	switch name {
	case "", "tm":
		return EmitTM, nil
	case "llvm":
		return EmitLLVM, nil
	default:
		return EmitTM, fmt.Errorf("unknown output kind `%s`: expected `tm` or `llvm`", name)
	}
}

func (e Emit) String() string {
	if e == EmitLLVM {
		return "llvm"
	}

	return "tm"
}

// Extension returns the file extension of the output kind
func (e Emit) Extension() string {
	if e == EmitLLVM {
		return ".ll"
	}

	return ".tm"
}

// DefaultMaxSteps is the default step limit of the simulator
const DefaultMaxSteps = 1000000

// minDataSize is the smallest data memory able to hold the built-in slots and
// a frame link
const minDataSize = 8

// Profile is the configuration of a build
type Profile struct {
	Emit       Emit
	OutputPath string

	// TraceAnalyze and TraceCode enable the analyzer and generator traces
	TraceAnalyze bool
	TraceCode    bool

	// Symtab displays the symbol table after analysis
	Symtab bool

	// DataSize and MaxSteps configure the simulator used by `run`
	DataSize int
	MaxSteps int
}

// DefaultProfile returns the profile used when none is given
func DefaultProfile() *Profile {
	return &Profile{
		Emit:     EmitTM,
		DataSize: tm.DefaultDataSize,
		MaxSteps: DefaultMaxSteps,
	}
}

// LoadProfile loads and validates a TOML build profile
func LoadProfile(path string) (*Profile, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	prof, err := ParseProfile(buff)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}

	return prof, nil
}

// ParseProfile decodes and validates the contents of a TOML build profile.
// Missing sections and fields keep their default values.
func ParseProfile(buff []byte) (*Profile, error) {
	tpf := &tomlProfileFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return nil, err
	}

	prof := DefaultProfile()

	if tc := tpf.Compile; tc != nil {
		emit, err := ParseEmit(tc.Emit)
		if err != nil {
			return nil, err
		}

		prof.Emit = emit
		prof.OutputPath = tc.OutputPath
		prof.TraceAnalyze = tc.TraceAnalyze
		prof.TraceCode = tc.TraceCode
		prof.Symtab = tc.Symtab
	}

	if mc := tpf.Machine; mc != nil {
		if mc.DataSize != 0 {
			if mc.DataSize < minDataSize {
				return nil, fmt.Errorf("data size must be at least %d words", minDataSize)
			}

			prof.DataSize = mc.DataSize
		}

		if mc.MaxSteps < 0 {
			return nil, fmt.Errorf("max steps must not be negative")
		}

		if mc.MaxSteps != 0 {
			prof.MaxSteps = mc.MaxSteps
		}
	}

	return prof, nil
}

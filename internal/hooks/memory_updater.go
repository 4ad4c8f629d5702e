package hooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MemoryUpdaterName is the name used in HOOK_DISABLED and diagnostics.
const MemoryUpdaterName = "claude-memory-updater"

// DefaultMemoryUpdaterConfig is read when HOOK_MEMORY_UPDATER_CONFIG is unset.
const DefaultMemoryUpdaterConfig = ".claude/hooks/memory-updater.yaml"

// ChangeKind classifies a change to the agent's own configuration files.
type ChangeKind int

const (
	KindNone ChangeKind = iota
	KindDocs
	KindAgents
	KindCommands
)

// String returns the label shown to the user.
func (k ChangeKind) String() string {
	switch k {
	case KindDocs:
		return "documentación"
	case KindAgents:
		return "agentes"
	case KindCommands:
		return "comandos"
	default:
		return "sistema"
	}
}

// ParseKind maps a config name (docs, agents, commands) to a ChangeKind.
func ParseKind(name string) (ChangeKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "docs":
		return KindDocs, nil
	case "agents":
		return KindAgents, nil
	case "commands":
		return KindCommands, nil
	default:
		return KindNone, fmt.Errorf("unknown change kind %q", name)
	}
}

// UnmarshalYAML decodes a kind from its config name.
func (k *ChangeKind) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	kind, err := ParseKind(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = kind
	return nil
}

// Watch maps a path prefix to the kind of change it signals.
type Watch struct {
	Prefix string     `yaml:"prefix"`
	Kind   ChangeKind `yaml:"kind"`
}

// DefaultWatches are the directories whose changes may leave CLAUDE.md stale.
var DefaultWatches = []Watch{
	{Prefix: ".claude/docs/", Kind: KindDocs},
	{Prefix: ".claude/agents/", Kind: KindAgents},
	{Prefix: ".claude/commands/", Kind: KindCommands},
}

type watchFile struct {
	Watch []Watch `yaml:"watch"`
}

// LoadWatches reads the watch list from a YAML file. A missing file yields
// DefaultWatches.
func LoadWatches(file string) ([]Watch, error) {
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultWatches, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var f watchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", file, err)
	}
	if len(f.Watch) == 0 {
		return DefaultWatches, nil
	}
	for i, w := range f.Watch {
		if w.Prefix == "" {
			return nil, fmt.Errorf("parsing config %s: watch %d has no prefix", file, i+1)
		}
		if w.Kind == KindNone {
			return nil, fmt.Errorf("parsing config %s: watch %q has no kind", file, w.Prefix)
		}
	}
	return f.Watch, nil
}

// MemoryUpdaterConfigPath returns HOOK_MEMORY_UPDATER_CONFIG or the default.
func MemoryUpdaterConfigPath() string {
	if v := os.Getenv("HOOK_MEMORY_UPDATER_CONFIG"); v != "" {
		return v
	}
	return filepath.FromSlash(DefaultMemoryUpdaterConfig)
}

// Classify returns the kind of the first watch whose prefix appears in
// filePath, or KindNone. Backslashes are treated as separators.
func Classify(filePath string, watches []Watch) ChangeKind {
	p := strings.ReplaceAll(filePath, `\`, "/")
	for _, w := range watches {
		if strings.Contains(p, w.Prefix) {
			return w.Kind
		}
	}
	return KindNone
}

// MemoryUpdater is a PostToolUse hook that suggests refreshing CLAUDE.md when
// the agent's docs, agent definitions or commands change. It returns the
// human-readable lines to print before the result, and false when the path is
// not watched. A malformed tool_input is an error.
func MemoryUpdater(input HookInput, watches []Watch) ([]string, HookResult, bool, error) {
	filePath, err := input.FilePath()
	if err != nil {
		return nil, HookResult{}, false, err
	}
	kind := Classify(filePath, watches)
	if kind == KindNone {
		return nil, HookResult{}, false, nil
	}

	lines := []string{
		fmt.Sprintf("🔄 Cambio detectado en %s", kind),
		fmt.Sprintf("📁 Archivo: %s", path.Base(strings.ReplaceAll(filePath, `\`, "/"))),
	}
	reason := fmt.Sprintf("Se detectaron cambios en %s del sistema. "+
		"El archivo CLAUDE.md podría necesitar actualización para reflejar estos cambios. "+
		"¿Quieres que el claude-memory-manager revise y actualice CLAUDE.md? "+
		"Esto asegurará que Claude arranque con el contexto más reciente.", kind)

	return lines, Block(reason), true, nil
}

// RunMemoryUpdater is the entrypoint of the memory-updater binary. It returns
// the process exit code: 0 when the event was handled (suggested or not) and
// 1 on any failure, in which case only a diagnostic goes to stderr so the host
// is never blocked by a broken hook.
func RunMemoryUpdater(stdin io.Reader, stdout, stderr io.Writer, configPath string) int {
	if IsHookDisabled(MemoryUpdaterName) {
		return 0
	}

	if err := runMemoryUpdater(stdin, stdout, configPath); err != nil {
		fmt.Fprintf(stderr, "Error en hook %s: %v\n", MemoryUpdaterName, err)
		return 1
	}
	return 0
}

func runMemoryUpdater(stdin io.Reader, stdout io.Writer, configPath string) error {
	watches, err := LoadWatches(configPath)
	if err != nil {
		return err
	}
	input, err := ReadInput(stdin)
	if err != nil {
		return err
	}

	lines, result, ok, err := MemoryUpdater(input, watches)
	if err != nil || !ok {
		return err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
	b.Write(out)
	b.WriteString("\n")
	if _, err := io.WriteString(stdout, b.String()); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

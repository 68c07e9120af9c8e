package manifest

// File names the registry loader looks for.
const (
	ManifestFile = "manifest.json"
	CategoryFile = "category.json"
)

// Strategy is how a file entry is placed into the target project.
type Strategy string

// Strategies. The set is closed; the materializer has one handler per value.
const (
	StrategyCopy      Strategy = "copy"
	StrategyMerge     Strategy = "merge"
	StrategyTemplate  Strategy = "template"
	StrategyAppend    Strategy = "append"
	StrategyReference Strategy = "reference"
)

// Strategies lists every strategy in documentation order.
func Strategies() []Strategy {
	return []Strategy{StrategyCopy, StrategyMerge, StrategyTemplate, StrategyAppend, StrategyReference}
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyCopy, StrategyMerge, StrategyTemplate, StrategyAppend, StrategyReference:
		return true
	}
	return false
}

// Category groups related tools. One per top-level registry directory.
type Category struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// FileEntry is one file shipped by a tool.
type FileEntry struct {
	// Source is relative to the tool's directory.
	Source string `json:"source"`
	// Destination is relative to the target directory. Empty means Source.
	Destination string   `json:"destination,omitempty"`
	Strategy    Strategy `json:"strategy"`
	Description string   `json:"description,omitempty"`
}

// Target returns the destination path, defaulting to Source.
func (f FileEntry) Target() string {
	if f.Destination != "" {
		return f.Destination
	}
	return f.Source
}

// SchemaRef points at the JSON Schema of a tool's own config format.
type SchemaRef struct {
	URL             string `json:"url,omitempty"`
	VendorURL       string `json:"vendorUrl,omitempty"`
	NodeModulesPath string `json:"nodeModulesPath,omitempty"`
}

// Variable documents a template variable a tool's files reference.
// It is descriptive only; nothing fills it in automatically.
type Variable struct {
	Description string `json:"description"`
	Default     string `json:"default,omitempty"`
}

// Manifest describes one tool's configuration bundle.
type Manifest struct {
	Name            string              `json:"name"`
	DisplayName     string              `json:"displayName"`
	Version         string              `json:"version"`
	Description     string              `json:"description"`
	Category        string              `json:"category"`
	Homepage        string              `json:"homepage,omitempty"`
	Schema          *SchemaRef          `json:"schema,omitempty"`
	Aliases         []string            `json:"aliases"`
	Tags            []string            `json:"tags"`
	Files           []FileEntry         `json:"files"`
	Suggests        []string            `json:"suggests"`
	Requires        []string            `json:"requires"`
	Dependencies    map[string]string   `json:"dependencies"`
	DevDependencies map[string]string   `json:"devDependencies"`
	Scripts         map[string]string   `json:"scripts"`
	Variables       map[string]Variable `json:"variables"`
}

// applyDefaults fills the values a manifest may omit.
func (m *Manifest) applyDefaults() {
	if m.Aliases == nil {
		m.Aliases = []string{}
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if m.Suggests == nil {
		m.Suggests = []string{}
	}
	if m.Requires == nil {
		m.Requires = []string{}
	}
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	if m.DevDependencies == nil {
		m.DevDependencies = map[string]string{}
	}
	if m.Scripts == nil {
		m.Scripts = map[string]string{}
	}
	if m.Variables == nil {
		m.Variables = map[string]Variable{}
	}
	for i := range m.Files {
		if m.Files[i].Strategy == "" {
			m.Files[i].Strategy = StrategyCopy
		}
	}
}

// Package persona defines the behavioral directives for research and debate.
package persona

// Persona pairs an identifier with the directive string shaping the model's
// behavior for all calls using a handle bound to it.
type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Directive   string `json:"directive"`
}

// Builtin persona IDs.
const (
	Researcher = "researcher"
	Theorist   = "theorist"
	Applied    = "applied"
	Verdict    = "verdict"
)

// DefaultPersonas returns the built-in personas.
func DefaultPersonas() []Persona {
	return []Persona{
		{
			ID:          Researcher,
			Name:        "Researcher",
			Description: "Answers document questions with academic rigor",
			Directive:   "You are a PhD Researcher. Use LaTeX for math.",
		},
		{
			ID:          Theorist,
			Name:        "Theorist",
			Description: "Opens the debate from first principles",
			Directive:   "You are a Formal Theorist. Use LaTeX. Be stubborn.",
		},
		{
			ID:          Applied,
			Name:        "Applied Scientist",
			Description: "Critiques the theorist from a practical standpoint",
			Directive:   "You are an Applied Scientist. Critique the Theorist.",
		},
		{
			ID:          Verdict,
			Name:        "Head Researcher",
			Description: "Synthesizes both positions into a final verdict",
			Directive:   "You are the Head Researcher. Synthesize.",
		},
	}
}

// Get returns a builtin persona by ID, or nil if not found.
func Get(id string) *Persona {
	for _, p := range DefaultPersonas() {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// List returns all builtin personas.
func List() []Persona {
	return DefaultPersonas()
}

// IsBuiltin reports whether id names a builtin persona.
func IsBuiltin(id string) bool {
	return Get(id) != nil
}

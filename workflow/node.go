package workflow

import "fmt"

// Node is a named generation stage: a prompt template bound to a state-read
// (Select), a prompt assembler (Prompt), and a state-write (Apply). Nodes are
// immutable once registered; they perform no routing themselves.
type Node struct {
	ID AgentID

	// System is the agent's system prompt.
	System string

	// JSONMode requests strict-JSON output from the backend.
	JSONMode bool

	// Select picks the named inputs for this call from state. Everything it
	// returns passes through the token budgeter before prompt assembly.
	Select func(s *State) map[string]string

	// Prompt formats the budgeted inputs into the user prompt.
	Prompt func(inputs map[string]string) string

	// Apply folds the normalized raw response back into state.
	Apply func(s *State, raw string) error
}

// Registry maps agent identifiers to their nodes. Built once at process
// start, read-only during traversal.
type Registry struct {
	nodes map[AgentID]*Node
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[AgentID]*Node)}
}

// Register adds a node. Re-registering an identifier is a programming error.
func (r *Registry) Register(n *Node) error {
	if n == nil || n.ID == Terminal {
		return fmt.Errorf("node must have a non-terminal id")
	}
	if n.Select == nil || n.Prompt == nil || n.Apply == nil {
		return fmt.Errorf("node %s is missing a selector, prompt, or applier", n.ID)
	}
	if _, exists := r.nodes[n.ID]; exists {
		return fmt.Errorf("node %s already registered", n.ID)
	}
	r.nodes[n.ID] = n
	return nil
}

// MustRegister is Register for process-start wiring, where a duplicate is a
// bug worth crashing on.
func (r *Registry) MustRegister(n *Node) {
	if err := r.Register(n); err != nil {
		panic(err)
	}
}

// Get returns the node for id.
func (r *Registry) Get(id AgentID) (*Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}

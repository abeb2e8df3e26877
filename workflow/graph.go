package workflow

// RouteFunc computes the next node from current state. Returning Terminal
// ends the traversal.
type RouteFunc func(s *State) AgentID

// Graph is a directed graph of agent nodes plus per-node routing functions.
// Built once at process start; read-only during traversal.
type Graph struct {
	registry *Registry
	edges    map[AgentID]RouteFunc
	entry    AgentID
}

func NewGraph(registry *Registry, entry AgentID) *Graph {
	return &Graph{
		registry: registry,
		edges:    make(map[AgentID]RouteFunc),
		entry:    entry,
	}
}

// AddEdge installs the routing function for a node.
func (g *Graph) AddEdge(from AgentID, route RouteFunc) {
	g.edges[from] = route
}

// Entry returns the traversal's initial node.
func (g *Graph) Entry() AgentID {
	return g.entry
}

// Node looks up a registered node.
func (g *Graph) Node(id AgentID) (*Node, bool) {
	return g.registry.Get(id)
}

// Size returns the number of registered nodes, used for the engine's
// iteration guard.
func (g *Graph) Size() int {
	return g.registry.Len()
}

// Route picks the next node after the current one. A node with no routing
// function terminates the traversal.
func (g *Graph) Route(s *State) AgentID {
	route, ok := g.edges[s.Current]
	if !ok {
		return Terminal
	}
	return route(s)
}

// LinearGraph wires the linear pipeline: outline, then content, then the
// output validator as a final non-LLM pass run by the caller.
func LinearGraph(registry *Registry) *Graph {
	g := NewGraph(registry, AgentOutline)
	g.AddEdge(AgentOutline, func(*State) AgentID { return AgentContent })
	g.AddEdge(AgentContent, func(*State) AgentID { return Terminal })
	return g
}

// SupervisedGraph wires the cyclic pipeline: a process node dispatches to one
// worker per cycle, every worker reports to review, review sends work back to
// its sender or forward, and the finalize agent produces the validated
// artifact. The engine's revision cap bounds the cycles.
func SupervisedGraph(registry *Registry) *Graph {
	g := NewGraph(registry, AgentProcess)

	g.AddEdge(AgentProcess, func(s *State) AgentID {
		if s.Decision == Terminal {
			return AgentReview
		}
		return s.Decision
	})

	toReview := func(*State) AgentID { return AgentReview }
	g.AddEdge(AgentVisualization, toReview)
	g.AddEdge(AgentSearcher, toReview)
	g.AddEdge(AgentCode, toReview)
	g.AddEdge(AgentReport, toReview)

	g.AddEdge(AgentReview, func(s *State) AgentID {
		if s.NeedsRevision && s.Sender != Terminal {
			return s.Sender
		}
		if s.Draft != "" || len(s.SectionContent) > 0 {
			return AgentFinalize
		}
		return AgentNote
	})

	g.AddEdge(AgentNote, func(*State) AgentID { return AgentProcess })
	g.AddEdge(AgentFinalize, func(*State) AgentID { return Terminal })

	return g
}

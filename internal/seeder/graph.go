package seeder

type DependencyGraph struct {
	tables map[string][]string
	names  []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		tables: make(map[string][]string),
	}
}

// AddTable registers a table and the tables it depends on. Tables are
// ordered by the sequence of AddTable calls when several are ready at once.
func (g *DependencyGraph) AddTable(name string, dependsOn []string) {
	if _, exists := g.tables[name]; !exists {
		g.names = append(g.names, name)
	}
	g.tables[name] = dependsOn
}

// Resolve runs Kahn's algorithm and returns the insertion order. Tables
// that can never become ready, because they sit in a cycle or depend on a
// table that was never added, come back in unresolved.
func (g *DependencyGraph) Resolve() (order []string, unresolved []string) {
	indegree := make(map[string]int, len(g.names))
	dependents := make(map[string][]string)

	for _, name := range g.names {
		seen := make(map[string]bool)
		for _, dep := range g.tables[name] {
			if dep == name || seen[dep] { // Skip self-references
				continue
			}
			seen[dep] = true
			dependents[dep] = append(dependents[dep], name)
			indegree[name]++
		}
	}

	queue := make([]string, 0, len(g.names))
	for _, name := range g.names {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	order = make([]string, 0, len(g.names))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		for _, next := range dependents[name] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	for _, name := range g.names {
		if indegree[name] > 0 {
			unresolved = append(unresolved, name)
		}
	}
	return order, unresolved
}

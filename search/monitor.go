package search

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(request *Request, mode Mode)
	AfterLexicalMatch(count int)
	AfterSemanticMatch(count int)
	Degraded(reason string)
	Finish(results []*Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *Request, _ Mode)  {}
func (n *noopMonitor) AfterLexicalMatch(_ int)   {}
func (n *noopMonitor) AfterSemanticMatch(_ int)  {}
func (n *noopMonitor) Degraded(_ string)         {}
func (n *noopMonitor) Finish(_ []*Result)        {}

package blueprint

// ASTNode is a slot of the AST blueprint. ID identifies the slot within the blueprint and
// NodeID is the id the parser assigns when it creates the node.
type ASTNode struct {
	ID     int    `json:"id" yaml:"id"`
	NodeID int    `json:"node_id" yaml:"node_id"`
	Label  string `json:"label" yaml:"label"`
}

// ASTEdge connects two slots by their blueprint ids.
type ASTEdge struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

type AST struct {
	Nodes []*ASTNode `json:"nodes" yaml:"nodes"`
	Edges []*ASTEdge `json:"edges" yaml:"edges"`
}

package model

// CatalogNode is one entry of the accounting taxonomy: a top-level category,
// a subtype, or an account. Nodes form a tree per client; a node's parent
// must already exist before the node is inserted.
type CatalogNode struct {
	Code       string
	Name       string
	ParentCode string
}

// IsRoot reports whether the node is a top-level category.
func (n CatalogNode) IsRoot() bool {
	return n.ParentCode == ""
}

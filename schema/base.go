package schema

// Base is a base schema for embedding into typed agent inputs/outputs
type Base struct{}

// String implements Schema interface
func (r Base) String() string {
	return ""
}

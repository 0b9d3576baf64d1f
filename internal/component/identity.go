package component

// Name labels an entity for logs and scripts.
type Name struct {
	Value string `yaml:"value"`
}

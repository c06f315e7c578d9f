package file

// FlowFile is the decoded form of one flow document. A document holds the
// nodes of one category in one language.
type FlowFile struct {
	Category string                  `mapstructure:"category"`
	Language string                  `mapstructure:"language"`
	Nodes    map[string]NodeMetadata `mapstructure:"nodes"`
}

// NodeMetadata is a node as authored. "next" maps an option or label to a
// logical node key.
type NodeMetadata struct {
	Type    string            `mapstructure:"type"`
	Message string            `mapstructure:"message"`
	Options []string          `mapstructure:"options"`
	Next    map[string]string `mapstructure:"next"`
	Fields  []string          `mapstructure:"fields"`
}

package catalog

// yamlSignature is the intermediate struct for parsing signature files.
type yamlSignature struct {
	Name             string   `yaml:"name"`
	Pattern          string   `yaml:"pattern"`
	Rarity           *float64 `yaml:"rarity"`
	Tags             []string `yaml:"tags,omitempty"`
	Description      string   `yaml:"description,omitempty"`
	URL              string   `yaml:"url,omitempty"`
	Exploit          string   `yaml:"exploit,omitempty"`
	Examples         []string `yaml:"examples,omitempty"`
	NegativeExamples []string `yaml:"negative_examples,omitempty"`
	Keywords         []string `yaml:"keywords,omitempty"`
	Connectors       string   `yaml:"connectors,omitempty"`
}

// yamlSignaturesFile is the top-level structure of a signature file.
type yamlSignaturesFile struct {
	Signatures []yamlSignature `yaml:"signatures"`
}

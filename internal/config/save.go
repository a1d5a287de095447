package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wardwatch/wardwatch/internal/log"
)

// SaveDefaultTab sets ui.default_tab and ui.pinned in the config file,
// leaving every other key and comment as it was. A missing file is created.
func SaveDefaultTab(path, tab string) error {
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	ui := mappingValue(root, "ui")
	if ui.Kind != yaml.MappingNode {
		*ui = yaml.Node{Kind: yaml.MappingNode}
	}
	value := mappingValue(ui, "default_tab")
	value.Kind = yaml.ScalarNode
	value.Tag = "!!str"
	value.Value = tab
	pinned := mappingValue(ui, "pinned")
	pinned.Kind = yaml.ScalarNode
	pinned.Tag = "!!bool"
	pinned.Value = "true"

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	log.Info(log.CatConfig, "pinned default tab", "path", path, "tab", tab)
	return nil
}

// mappingValue returns the value node for key in m, appending an empty one
// when the key is missing.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	v := &yaml.Node{}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, v)
	return v
}

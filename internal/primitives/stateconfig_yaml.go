package primitives

import (
	"fmt"

	"gopkg.in/yaml.v3"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// UnmarshalYAML drives States and On by hand from the raw mapping node
// instead of leaving them to yaml.v3's struct reflection: OrderedMap keeps
// its entries in unexported fields (it only exposes JSON codec methods),
// so a plain decode would silently produce an empty map and drop every
// declared child state and transition.
func (s *StateConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Key           string       `yaml:"key"`
		ID            string       `yaml:"id,omitempty"`
		Type          StateType    `yaml:"type"`
		Initial       string       `yaml:"initial,omitempty"`
		HistoryDepth  HistoryDepth `yaml:"historyDepth,omitempty"`
		HistoryTarget string       `yaml:"historyTarget,omitempty"`
		Meta          any          `yaml:"meta,omitempty"`
		Data          any          `yaml:"data,omitempty"`
		States        yaml.Node    `yaml:"states"`
		On            yaml.Node    `yaml:"on"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	s.Key, s.ID, s.Type = raw.Key, raw.ID, raw.Type
	s.Initial, s.HistoryDepth, s.HistoryTarget = raw.Initial, raw.HistoryDepth, raw.HistoryTarget
	s.Meta, s.Data = raw.Meta, raw.Data
	s.States, s.On = nil, nil

	if raw.States.Kind == yaml.MappingNode {
		states := orderedmap.New[string, *StateConfig]()
		for i := 0; i+1 < len(raw.States.Content); i += 2 {
			keyNode, valNode := raw.States.Content[i], raw.States.Content[i+1]
			child := &StateConfig{}
			if err := valNode.Decode(child); err != nil {
				return fmt.Errorf("state %q: %w", keyNode.Value, err)
			}
			if child.Key == "" {
				child.Key = keyNode.Value
			}
			states.Set(keyNode.Value, child)
		}
		s.States = states
	}

	if raw.On.Kind == yaml.MappingNode {
		on := orderedmap.New[string, []TransitionConfig]()
		for i := 0; i+1 < len(raw.On.Content); i += 2 {
			keyNode, valNode := raw.On.Content[i], raw.On.Content[i+1]
			var trans []TransitionConfig
			if valNode.Kind == yaml.SequenceNode {
				if err := valNode.Decode(&trans); err != nil {
					return fmt.Errorf("event %q: %w", keyNode.Value, err)
				}
			} else {
				var single TransitionConfig
				if err := valNode.Decode(&single); err != nil {
					return fmt.Errorf("event %q: %w", keyNode.Value, err)
				}
				trans = []TransitionConfig{single}
			}
			for i := range trans {
				trans[i].Event = keyNode.Value
			}
			on.Set(keyNode.Value, trans)
		}
		s.On = on
	}

	return nil
}

// MarshalYAML is UnmarshalYAML's inverse: it walks States and On in
// document order and builds the mapping node by hand for the same reason
// the decode side does.
func (s *StateConfig) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	put := func(key string, val any) error {
		kn := &yaml.Node{}
		if err := kn.Encode(key); err != nil {
			return err
		}
		vn := &yaml.Node{}
		if err := vn.Encode(val); err != nil {
			return err
		}
		node.Content = append(node.Content, kn, vn)
		return nil
	}

	if err := put("key", s.Key); err != nil {
		return nil, err
	}
	if s.ID != "" {
		if err := put("id", s.ID); err != nil {
			return nil, err
		}
	}
	if err := put("type", s.Type); err != nil {
		return nil, err
	}
	if s.Initial != "" {
		if err := put("initial", s.Initial); err != nil {
			return nil, err
		}
	}
	if s.HistoryDepth != "" {
		if err := put("historyDepth", s.HistoryDepth); err != nil {
			return nil, err
		}
	}
	if s.HistoryTarget != "" {
		if err := put("historyTarget", s.HistoryTarget); err != nil {
			return nil, err
		}
	}

	if s.States != nil && s.States.Len() > 0 {
		statesNode := &yaml.Node{Kind: yaml.MappingNode}
		for pair := s.States.Oldest(); pair != nil; pair = pair.Next() {
			kn := &yaml.Node{}
			if err := kn.Encode(pair.Key); err != nil {
				return nil, err
			}
			vn := &yaml.Node{}
			if err := vn.Encode(pair.Value); err != nil {
				return nil, err
			}
			statesNode.Content = append(statesNode.Content, kn, vn)
		}
		kn := &yaml.Node{}
		if err := kn.Encode("states"); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, kn, statesNode)
	}

	if s.On != nil && s.On.Len() > 0 {
		onNode := &yaml.Node{Kind: yaml.MappingNode}
		for pair := s.On.Oldest(); pair != nil; pair = pair.Next() {
			kn := &yaml.Node{}
			if err := kn.Encode(pair.Key); err != nil {
				return nil, err
			}
			vn := &yaml.Node{}
			if err := vn.Encode(pair.Value); err != nil {
				return nil, err
			}
			onNode.Content = append(onNode.Content, kn, vn)
		}
		kn := &yaml.Node{}
		if err := kn.Encode("on"); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, kn, onNode)
	}

	if s.Meta != nil {
		if err := put("meta", s.Meta); err != nil {
			return nil, err
		}
	}
	if s.Data != nil {
		if err := put("data", s.Data); err != nil {
			return nil, err
		}
	}

	return node, nil
}

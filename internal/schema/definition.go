package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// definition is the on-disk YAML shape of a source contract.
//
//	source: npp
//	table: npp_generation
//	duplicate_key: [timestamp_ms, plant_and_unit]
//	required:
//	  plant: {type: string, rule: non_empty}
//	optional:
//	  unit: string-or-null-or-number
type definition struct {
	Source       Source    `yaml:"source"`
	Table        string    `yaml:"table"`
	DuplicateKey []string  `yaml:"duplicate_key"`
	Columns      []string  `yaml:"columns"`
	Required     fieldList `yaml:"required"`
	Optional     fieldList `yaml:"optional"`
}

// fieldList decodes a YAML mapping while keeping declaration order.
type fieldList []Field

func (l *fieldList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", value.Line)
	}

	seen := make(map[string]bool, len(value.Content)/2)
	out := make(fieldList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		if seen[name] {
			return fmt.Errorf("line %d: field %q declared twice", value.Content[i].Line, name)
		}
		seen[name] = true

		var spec fieldSpecYAML
		if err := value.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		out = append(out, Field{Name: name, Spec: FieldSpec(spec)})
	}
	*l = out
	return nil
}

// fieldSpecYAML accepts both declaration styles:
//
//	Shorthand (scalar): unit: string-or-null
//	Long form (mapping): plant:
//	                        type: string
//	                        rule: non_empty
type fieldSpecYAML FieldSpec

func (f *fieldSpecYAML) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		f.Type = TypeTag(value.Value)
		f.Rule = RuleNone
		return nil
	}

	var long struct {
		Type string `yaml:"type"`
		Rule string `yaml:"rule"`
	}
	if err := value.Decode(&long); err != nil {
		return err
	}
	if long.Type == "" {
		return fmt.Errorf("field missing 'type'")
	}
	f.Type = TypeTag(long.Type)
	f.Rule = RuleTag(long.Rule)
	return nil
}

// ParseDefinition parses and checks a YAML source contract.
func ParseDefinition(data []byte) (*Schema, error) {
	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse schema definition: %w", err)
	}
	if err := def.validate(); err != nil {
		return nil, fmt.Errorf("invalid schema definition for %q: %w", def.Source, err)
	}

	return &Schema{
		Source:       def.Source,
		Required:     append([]Field(nil), def.Required...),
		Optional:     append([]Field(nil), def.Optional...),
		DuplicateKey: append([]string(nil), def.DuplicateKey...),
		Table:        def.Table,
		Columns:      append([]string(nil), def.Columns...),
		Fingerprint:  ComputeFingerprint(data),
	}, nil
}

func (d *definition) validate() error {
	if d.Source == "" {
		return fmt.Errorf("source is required")
	}
	if d.Table == "" {
		return fmt.Errorf("table is required")
	}
	if len(d.Required) == 0 {
		return fmt.Errorf("schema must define at least one required field")
	}

	declared := make(map[string]bool, len(d.Required)+len(d.Optional))
	for _, f := range d.Required {
		if !f.Spec.Type.Known() {
			return fmt.Errorf("field %q: unsupported type %q", f.Name, f.Spec.Type)
		}
		if !f.Spec.Rule.Known() {
			return fmt.Errorf("field %q: unsupported rule %q", f.Name, f.Spec.Rule)
		}
		declared[f.Name] = true
	}
	for _, f := range d.Optional {
		if declared[f.Name] {
			return fmt.Errorf("field %q is both required and optional", f.Name)
		}
		if !f.Spec.Type.Known() {
			return fmt.Errorf("field %q: unsupported type %q", f.Name, f.Spec.Type)
		}
		if f.Spec.Rule != RuleNone {
			return fmt.Errorf("optional field %q cannot carry a validation rule", f.Name)
		}
		declared[f.Name] = true
	}

	for _, name := range d.DuplicateKey {
		if !declared[name] {
			return fmt.Errorf("duplicate_key references undeclared field %q", name)
		}
	}
	for _, name := range d.Columns {
		if !declared[name] {
			return fmt.Errorf("columns references undeclared field %q", name)
		}
	}
	return nil
}

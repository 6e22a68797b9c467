package gohcl

import (
	"github.com/func/hcl/hclsyntax"
	"github.com/func/hcl/hclwrite"
)

// Unmarshal parses src as HCL and decodes it into target in one step.
func Unmarshal(src []byte, target interface{}) error {
	body, err := hclsyntax.ParseBody(src, nil)
	if err != nil {
		return err
	}
	return Decode(body, target)
}

// Marshal encodes v structurally and renders it as canonical HCL source.
func Marshal(v interface{}) ([]byte, error) {
	body, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return hclwrite.Format(body), nil
}

// MarshalValue encodes v in value mode and renders the resulting value.
func MarshalValue(v interface{}) ([]byte, error) {
	out, err := EncodeValue(v)
	if err != nil {
		return nil, err
	}
	return hclwrite.FormatValue(out), nil
}

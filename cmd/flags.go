package cmd

import (
	"github.com/spf13/pflag"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// variantValue is a pflag.Value that only accepts known record variants.
type variantValue struct {
	v *interfaces.Variant
}

var _ pflag.Value = (*variantValue)(nil)

func newVariantValue(p *interfaces.Variant, def interfaces.Variant) *variantValue {
	*p = def
	return &variantValue{v: p}
}

func (f *variantValue) String() string {
	if f.v == nil {
		return ""
	}
	return string(*f.v)
}

func (f *variantValue) Set(s string) error {
	v, err := interfaces.ParseVariant(s)
	if err != nil {
		return err
	}
	*f.v = v
	return nil
}

func (f *variantValue) Type() string { return "variant" }

package request

import "testing"

func TestResultFieldRoundTrip(t *testing.T) {

	fields := []string{"gene_id", "symbol", "biotype", "logcpm", "log2fc", "fdr"}

	for _, name := range fields {
		f := NewResultField(name)
		if f.String() != name {
			t.Errorf("round trip of %q gave %q", name, f.String())
		}
	}
}

func TestResultFieldUnknownDefaults(t *testing.T) {

	if NewResultField("drop table") != ResultFieldGeneID {
		t.Error("unknown field should default to gene_id")
	}
	if NewResultField("") != ResultFieldGeneID {
		t.Error("empty field should default to gene_id")
	}
}

package db

import (
	"strings"
	"testing"
)

func mustBuild(t *testing.T, b *IndexBuilder) *IndexDefinition {
	t.Helper()
	def, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return def
}

func TestIndexBuilder_ProfileIndex(t *testing.T) {
	idx := mustBuild(t, NewIndex("rosterdex:profiles").
		Prefix("rosterdex:profile:").
		Tag("employee_id").
		Text("__content").
		VectorHNSW("vector", 1536, DistanceCosine, 16, 200))

	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(idx.Fields))
	}
	if idx.Fields[0].Name != "employee_id" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want employee_id TAG", idx.Fields[0])
	}
	if idx.Fields[1].Type != IndexFieldText {
		t.Errorf("field[1] = %+v, want TEXT", idx.Fields[1])
	}
	f := idx.Fields[2]
	if f.VectorAlgo != VectorHNSW || f.VectorDim != 1536 || f.VectorM != 16 || f.VectorEFConstruct != 200 {
		t.Errorf("vector field = %+v", f)
	}
}

func TestIndexBuilder_VectorFlat(t *testing.T) {
	idx := mustBuild(t, NewIndex("vec-idx").
		Prefix("emb:").
		VectorFlat("embedding", 1536, DistanceCosine, 0))

	f := idx.Fields[0]
	if f.VectorAlgo != VectorFlat {
		t.Errorf("algo = %q, want FLAT", f.VectorAlgo)
	}
	if f.VectorDistance != DistanceCosine {
		t.Errorf("distance = %q, want COSINE", f.VectorDistance)
	}
}

func TestIndexBuilder_MultiplePrefixes(t *testing.T) {
	idx := mustBuild(t, NewIndex("multi-idx").
		Prefix("a:", "b:", "c:").
		Tag("x"))

	if len(idx.Prefixes) != 3 {
		t.Errorf("prefix count = %d, want 3", len(idx.Prefixes))
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Tag("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "vector without dim",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").VectorFlat("v", 0, DistanceCosine, 0).Build()
			},
			wantErr: "positive DIM",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Tag("x").Build()
			},
			wantErr: "invalid characters",
		},
		{
			name: "duplicate field",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Tag("x").Text("x").Build()
			},
			wantErr: "duplicate field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := mustBuild(t, NewIndex("my-idx").
		Prefix("doc:").
		Tag("cat").
		VectorFlat("vec", 512, DistanceCosine, 0))

	s := idx.String()
	want := "FT.CREATE my-idx ON HASH PREFIX doc: SCHEMA cat TAG vec VECTOR FLAT"
	if s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"rosterdex:profiles", true},
		{"a_b-c", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
	}
	for _, tc := range tests {
		if got := IsValidIdentifier(tc.in); got != tc.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

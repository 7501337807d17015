package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/ardnew/spipe/pkg"
)

func TestVersion(t *testing.T) {
	var out bytes.Buffer

	ctx := WithStreams(context.Background(), nil, &out, nil)

	if err := (Version{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if want := pkg.Name + " " + pkg.Version + "\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

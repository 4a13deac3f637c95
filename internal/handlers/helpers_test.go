package handlers

import (
	"io"
	"strings"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func contains(s, substr string) bool { return strings.Contains(s, substr) }

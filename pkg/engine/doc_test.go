// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package engine

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 📚 TestPackageDoc parses every source file of the package and checks that
// the package comment survives whole
func TestPackageDoc(t *testing.T) {
	paths, err := filepath.Glob("*.go")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	fset := token.NewFileSet()
	for _, path := range paths {
		_, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		require.NoError(t, err, path)
	}

	f, err := parser.ParseFile(fset, "doc.go", nil, parser.ParseComments)
	require.NoError(t, err)
	require.NotNil(t, f.Doc, "doc.go carries the package comment")

	doc := f.Doc.Text()
	assert.Contains(t, doc, "Package engine implements the batch refactor engine")
	assert.Contains(t, doc, "Written files append a metrics.Record")
	assert.Contains(t, doc, "e.RefactorMany(ctx, \"src\")")
}

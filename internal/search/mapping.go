package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping maps recipe documents: stemmed full text on name and
// text, exact author ids, and numeric fields for filtering and sorting.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = en.AnalyzerName
	nameField.Store = true
	nameField.IncludeTermVectors = true // highlighting
	docMapping.AddFieldMappingsAt("name", nameField)

	// Recipe bodies can be long; searchable only.
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = en.AnalyzerName
	textField.Store = false
	docMapping.AddFieldMappingsAt("text", textField)

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idField)

	authorField := bleve.NewTextFieldMapping()
	authorField.Analyzer = keyword.Name
	authorField.Store = true
	docMapping.AddFieldMappingsAt("author_id", authorField)

	cookingTimeField := bleve.NewNumericFieldMapping()
	cookingTimeField.Store = true
	docMapping.AddFieldMappingsAt("cooking_time", cookingTimeField)

	createdAtField := bleve.NewNumericFieldMapping()
	createdAtField.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/registry"
)

// documentedTools is the complete published tool surface. Renaming or
// dropping a tool is a breaking change for clients; this test makes it a
// deliberate one.
var documentedTools = []string{
	"firestore_add_document",
	"firestore_list_documents",
	"firestore_get_document",
	"firestore_update_document",
	"firestore_delete_document",
	"firestore_list_collections",
	"firestore_query_collection_group",
	"storage_list_files",
	"storage_get_file_info",
	"storage_upload",
	"storage_upload_from_url",
	"auth_get_user",
}

func TestAllDocumentedToolsAreRegistered(t *testing.T) {
	reg := registry.New(time.Second)
	for _, tool := range allTools(&firebase.Client{}) {
		require.NoError(t, reg.Register(tool))
	}

	assert.ElementsMatch(t, documentedTools, reg.Names())
}

func TestEveryToolDeclaresADescriptionAndSchema(t *testing.T) {
	for _, tool := range allTools(&firebase.Client{}) {
		handle := tool.Handle()
		assert.NotEmpty(t, handle.Description, "tool %s", handle.Name)
		assert.NotEmpty(t, handle.InputSchema.Properties, "tool %s", handle.Name)
	}
}

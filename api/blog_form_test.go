package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefListAcceptsStringsAndNumbers(t *testing.T) {
	var l refList
	require.NoError(t, json.Unmarshal([]byte(`["news", 3, "7"]`), &l))
	assert.Equal(t, refList{"news", "3", "7"}, l)

	assert.Error(t, json.Unmarshal([]byte(`[{"id": 1}]`), &l))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "publish_datetime", toSnakeCase("PublishDatetime"))
	assert.Equal(t, "name", toSnakeCase("Name"))
	assert.Equal(t, "cannonical_link", toSnakeCase("CannonicalLink"))
}

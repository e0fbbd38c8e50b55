package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCatalogMutation(t *testing.T) {
	success := CatalogMutations.WithLabelValues("add", "success")
	failure := CatalogMutations.WithLabelValues("add", "error")
	beforeSuccess := testutil.ToFloat64(success)
	beforeFailure := testutil.ToFloat64(failure)

	RecordCatalogMutation("add", nil)
	RecordCatalogMutation("add", errors.New("disk full"))
	RecordCatalogMutation("add", nil)

	assert.Equal(t, beforeSuccess+2, testutil.ToFloat64(success))
	assert.Equal(t, beforeFailure+1, testutil.ToFloat64(failure))
}

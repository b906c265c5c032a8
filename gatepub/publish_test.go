package gatepub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codegate/engine"
)

func TestPublishReportNilConnection(t *testing.T) {
	report := &engine.Report{PrimaryPassed: true}
	err := PublishReport(nil, "codegate.reports", "src/util.py", "standard", "", report)
	assert.NoError(t, err)
}

func TestConnectEmptyURL(t *testing.T) {
	nc, err := Connect("")
	require.NoError(t, err)
	assert.Nil(t, nc)
}

package errs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keboola/waii-integration/pkg/errs"
)

func TestE(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect string
	}{
		{
			name:   "op and kind",
			err:    errs.E(errs.Op("keboola.ListBuckets"), errs.NotExist, errs.Str("bucket gone")),
			expect: "keboola.ListBuckets: item does not exist: bucket gone",
		},
		{
			name:   "string becomes error",
			err:    errs.E(errs.Op("config.Validate"), errs.Validation, "missing token"),
			expect: "config.Validate: input validation error: missing token",
		},
		{
			name:   "parameter",
			err:    errs.E(errs.IO, errs.Parameter("table_id"), errs.Str("boom")),
			expect: "I/O error: parameter table_id: boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.EqualError(t, tc.err, tc.expect)
		})
	}
}

func TestKindIs(t *testing.T) {
	inner := errs.E(errs.Op("keboola.GetTableDetail"), errs.NotExist, errs.Str("table gone"))
	outer := errs.E(errs.Op("collectorService.Collect"), inner)

	assert.True(t, errs.KindIs(errs.NotExist, outer))
	assert.False(t, errs.KindIs(errs.Unauthenticated, outer))
	assert.False(t, errs.KindIs(errs.NotExist, errs.Str("plain error")))
	assert.False(t, errs.KindIs(errs.NotExist, nil))
}

func TestOpStack(t *testing.T) {
	inner := errs.E(errs.Op("keboola.GetTableDetail"), errs.Transient, errs.Str("timeout"))
	middle := errs.E(errs.Op("catalogAPI.GetTableDetail"), inner)
	outer := errs.E(errs.Op("collectorService.Collect"), middle)

	assert.Equal(t, []string{
		"collectorService.Collect",
		"catalogAPI.GetTableDetail",
		"keboola.GetTableDetail",
	}, errs.OpStack(outer))
}

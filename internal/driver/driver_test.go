package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunSource_SuccessPrintsAndExitsZero(t *testing.T) {
	var stdout, stderr strings.Builder
	code := RunSource([]byte(`print 1 + 2;`), &stdout, &stderr)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "3\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunSource_LexErrorExits65(t *testing.T) {
	var stdout, stderr strings.Builder
	code := RunSource([]byte(`@`), &stdout, &stderr)
	assert.Equal(t, ExitDataErr, code)
	assert.Contains(t, stderr.String(), "Error")
}

func TestRunSource_ParseErrorExits65(t *testing.T) {
	var stdout, stderr strings.Builder
	code := RunSource([]byte(`var x = ;`), &stdout, &stderr)
	assert.Equal(t, ExitDataErr, code)
}

func TestRunSource_ResolveErrorExits65(t *testing.T) {
	var stdout, stderr strings.Builder
	code := RunSource([]byte(`return 1;`), &stdout, &stderr)
	assert.Equal(t, ExitDataErr, code)
}

func TestRunSource_RuntimeErrorExits70(t *testing.T) {
	var stdout, stderr strings.Builder
	code := RunSource([]byte(`print undefinedVar;`), &stdout, &stderr)
	assert.Equal(t, ExitRuntime, code)
	assert.Contains(t, stderr.String(), "Error")
}

func TestRunSource_RuntimeErrorAbortsRemainingStatements(t *testing.T) {
	var stdout, stderr strings.Builder
	code := RunSource([]byte(`
		print "before";
		print undefinedVar;
		print "after";
	`), &stdout, &stderr)
	assert.Equal(t, ExitRuntime, code)
	assert.Equal(t, "before\n", stdout.String())
}

package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isupersid/stalker-test-client/internal/application/service"
	"github.com/isupersid/stalker-test-client/internal/domain/models"
	"github.com/isupersid/stalker-test-client/pkg/errors"
)

func TestReadMACList(t *testing.T) {
	input := strings.Join([]string{
		"# lab portal boxes",
		"00:1a:79:00:00:01",
		"",
		"00-1A-79-00-00-02",
		"  001a79000003  ",
		"# trailing comment",
	}, "\n")

	macs, err := service.ReadMACList(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00:1A:79:00:00:01",
		"00:1A:79:00:00:02",
		"00:1A:79:00:00:03",
	}, macs)
}

func TestReadMACList_RejectsGarbageLine(t *testing.T) {
	input := "00:1a:79:00:00:01\nnot-a-mac\n"
	_, err := service.ReadMACList(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadMACList_Empty(t *testing.T) {
	macs, err := service.ReadMACList(strings.NewReader("\n# only comments\n"))
	require.NoError(t, err)
	assert.Empty(t, macs)
}

func TestWriteAuthorizedList_PreservesInputOrder(t *testing.T) {
	report := models.NewBatchReport("http://portal.example.com")
	report.Append(models.AuthOutcome{
		Identity:       models.DeviceIdentity{MAC: "00:1A:79:00:00:03"},
		Classification: models.ClassAuthorized,
	})
	report.Append(models.AuthOutcome{
		Identity:       models.DeviceIdentity{MAC: "00:1A:79:00:00:01"},
		Classification: models.ClassPending,
	})
	report.Append(models.AuthOutcome{
		Identity:       models.DeviceIdentity{MAC: "00:1A:79:00:00:02"},
		Classification: models.ClassAuthorized,
	})

	var out strings.Builder
	require.NoError(t, service.WriteAuthorizedList(&out, report))
	assert.Equal(t, "00:1A:79:00:00:03\n00:1A:79:00:00:02\n", out.String())
}

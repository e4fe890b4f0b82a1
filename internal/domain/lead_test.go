package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestParseStage(t *testing.T) {
	cases := []struct {
		in   string
		want Stage
	}{
		{"New Lead", StageNewLead},
		{"new-lead", StageNewLead},
		{"qualified", StageQualified},
		{"proposal_sent", StageProposalSent},
		{"NEGOTIATION", StageNegotiation},
		{"closed-won", StageClosedWon},
		{"Closed Lost", StageClosedLost},
	}
	for _, tc := range cases {
		got, err := ParseStage(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseStage("won")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Closed-Won")
}

func TestStageIndex_FunnelOrder(t *testing.T) {
	for i, s := range Stages() {
		assert.Equal(t, i, s.Index())
	}
	assert.Equal(t, -1, Stage("Dormant").Index())
	assert.True(t, StageClosedLost.Closed())
	assert.False(t, StageNegotiation.Closed())
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestServiceFrequencyMultiplier(t *testing.T) {
	cases := map[ServiceFrequency]int{
		FrequencyOneTime:      1,
		FrequencyAnnually:     1,
		FrequencySemiAnnually: 2,
		FrequencyQuarterly:    4,
		FrequencyBiMonthly:    6,
		FrequencyMonthly:      12,
		"":                    1,
		"Fortnightly":         1,
	}
	for f, want := range cases {
		assert.Equal(t, want, f.Multiplier(), "frequency=%q", f)
	}
}

func TestParseServiceFrequency(t *testing.T) {
	f, err := ParseServiceFrequency("semi-annually")
	require.NoError(t, err)
	assert.Equal(t, FrequencySemiAnnually, f)

	f, err = ParseServiceFrequency("onetime")
	require.NoError(t, err)
	assert.Equal(t, FrequencyOneTime, f)

	_, err = ParseServiceFrequency("weekly")
	assert.Error(t, err)
}

func TestLeadValidate(t *testing.T) {
	l := &Lead{Name: "Ada", Priority: PriorityMedium, Stage: StageNewLead}
	require.NoError(t, l.Validate())

	l.Name = "  "
	assert.Error(t, l.Validate())

	l.Name = "Ada"
	neg := -1.0
	l.ProjectedValue = &neg
	assert.Error(t, l.Validate())

	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		l.ProjectedValue = &v
		assert.Error(t, l.Validate(), "value=%v", v)
	}

	zero := 0.0
	l.ProjectedValue = &zero
	assert.NoError(t, l.Validate())
}

func TestBusinessProfileValidate_RejectsNonFiniteAverage(t *testing.T) {
	p := DefaultBusinessProfile()
	require.NoError(t, p.Validate())

	p.AvgContractValue = math.NaN()
	assert.Error(t, p.Validate())
	p.AvgContractValue = math.Inf(1)
	assert.Error(t, p.Validate())
}

func TestFloat64FromPtrWithDefault(t *testing.T) {
	one, two := 1.0, 2.0
	assert.Equal(t, 5.0, Float64FromPtrWithDefault(5))
	assert.Equal(t, 5.0, Float64FromPtrWithDefault(5, nil, nil))
	assert.Equal(t, 1.0, Float64FromPtrWithDefault(5, nil, &one, &two))
}

func TestFirstName(t *testing.T) {
	l := &Lead{Name: "Grace Hopper"}
	assert.Equal(t, "Grace", l.FirstName())

	l.Customer = &CustomerData{FirstName: "Amazing"}
	assert.Equal(t, "Amazing", l.FirstName())

	assert.Equal(t, "", (&Lead{}).FirstName())
}

func TestChangeStage(t *testing.T) {
	l := &Lead{Stage: StageNewLead}
	from, err := l.ChangeStage(StageQualified, testNow)
	require.NoError(t, err)
	assert.Equal(t, StageNewLead, from)
	assert.Equal(t, StageQualified, l.Stage)
	assert.Equal(t, testNow, l.UpdatedAt)

	_, err = l.ChangeStage(StageQualified, testNow)
	assert.Error(t, err, "same stage")

	_, err = l.ChangeStage("Won", testNow)
	assert.Error(t, err)
	assert.Equal(t, StageQualified, l.Stage)
}

func TestAppendNote(t *testing.T) {
	l := &Lead{}
	require.NoError(t, l.AppendNote("first", testNow))
	require.NoError(t, l.AppendNote("second", testNow))
	assert.Equal(t, "first\n\nsecond", l.Notes)
	assert.Error(t, l.AppendNote("   ", testNow))
}

func TestArchiveRestore(t *testing.T) {
	l := &Lead{Name: "Ada"}
	require.NoError(t, l.Archive(testNow))
	assert.True(t, l.Archived)
	require.NotNil(t, l.ArchivedAt)
	assert.Error(t, l.Archive(testNow))

	require.NoError(t, l.Restore(testNow))
	assert.False(t, l.Archived)
	assert.Nil(t, l.ArchivedAt)
	assert.Error(t, l.Restore(testNow))
}

func TestConvert_KeepsExistingConvertedAt(t *testing.T) {
	earlier := testNow.Add(-48 * time.Hour)
	l := &Lead{Stage: StageNegotiation, ConvertedAt: &earlier}
	l.Convert(CustomerData{FirstName: "Ada", JobType: FrequencyMonthly}, testNow)

	assert.True(t, l.ConvertedToCustomer)
	assert.Equal(t, StageClosedWon, l.Stage)
	assert.Equal(t, earlier, *l.ConvertedAt)
	assert.True(t, l.IsCustomer())
	assert.True(t, l.ActiveCustomer())
	assert.False(t, l.ActiveLead())
}

func TestCustomerArchiveIndependentOfLeadArchive(t *testing.T) {
	l := &Lead{Name: "Ada"}
	assert.Error(t, l.ArchiveCustomer(testNow), "not a customer")

	l.Convert(CustomerData{}, testNow)
	require.NoError(t, l.ArchiveCustomer(testNow))
	assert.False(t, l.Archived)
	assert.False(t, l.ActiveCustomer())

	require.NoError(t, l.RestoreCustomer(testNow))
	assert.True(t, l.ActiveCustomer())
}

func TestRevertConversion(t *testing.T) {
	l := &Lead{Name: "Ada"}
	l.Convert(CustomerData{}, testNow)
	l.RevertConversion(testNow)

	assert.Nil(t, l.Customer)
	assert.False(t, l.ConvertedToCustomer)
	assert.Nil(t, l.ConvertedAt)
	assert.Equal(t, StageClosedLost, l.Stage)
}

func TestAddressString(t *testing.T) {
	a := Address{Street1: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}
	assert.Equal(t, "1 Main St, Springfield, IL 62701", a.String())
	assert.Equal(t, "", Address{}.String())
	assert.True(t, Address{}.IsZero())
}

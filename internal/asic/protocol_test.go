package asic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundcath/beamformer/internal/beamform"
)

func TestResult(t *testing.T) {
	tests := []struct {
		line, want string
	}{
		{"FPGAVersion:RESULT:1.4.2", "1.4.2"},
		{"GetASICError:RESULT:ASIC Error Status: 00, FPGA Error Status: 00000000", "ASIC Error Status: 00, FPGA Error Status: 00000000"},
		{"SetParam:Config,ClkSpeed:OK", "OK"},
		{"ready", "ready"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Result(tt.line), tt.line)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("GetASICError:RESULT:ASIC Error Status: 00, FPGA Error Status: 00000000")
	require.NoError(t, err)
	assert.Equal(t, Status{}, st)
	assert.NoError(t, st.Err())

	st, err = ParseStatus("GetASICError:RESULT:ASIC Error Status: 0c, FPGA Error Status: 00000201")
	require.NoError(t, err)
	assert.Equal(t, Status{ASIC: ASICChecksum | ASICBusy, FPGA: FPGAQSPI | FPGAOverfull}, st)

	err = st.Err()
	assert.ErrorIs(t, err, ErrASIC)
	assert.ErrorIs(t, err, ErrFPGA)
	assert.ErrorIs(t, err, ErrChecksum)
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, err, ErrQSPI)
	assert.ErrorIs(t, err, ErrOverfull)
	assert.NotErrorIs(t, err, ErrFrameError)

	st, err = ParseStatus("GetASICError:RESULT:ASIC Error Status: 00, FPGA Error Status: 00000400")
	require.NoError(t, err)
	assert.Equal(t, FPGAFrameError, st.FPGA)

	// only the last eight hex digits carry the FPGA word
	st, err = ParseStatus("GetASICError:RESULT:ASIC Error Status: 00, FPGA Error Status: 0x00000040")
	require.NoError(t, err)
	assert.Equal(t, FPGACommand, st.FPGA)
}

func TestParseStatusMalformed(t *testing.T) {
	for _, line := range []string{
		"GetASICError:RESULT:",
		"GetASICError:RESULT:ASIC Error Status: zz, FPGA Error Status: 00000000",
		"GetASICError:RESULT:ASIC Error Status: 00, FPGA Error Status: 12",
		"GetASICError:RESULT:ASIC Error Status: 00, FPGA Error Status: 0000000g",
		"GetASICError:RESULT:ASIC Error Status: 100, FPGA Error Status: 00000000",
	} {
		_, err := ParseStatus(line)
		assert.ErrorIs(t, err, ErrMalformedStatus, line)
	}
}

func TestCommandFormatting(t *testing.T) {
	assert.Equal(t, "SetParam:ConfigCore,ISelLNA:4", SetParam(GroupConfigCore, "ISelLNA", 4))
	assert.Equal(t, "SetParam:ConfigDRV,Enable:true", SetParam(GroupConfigDRV, "Enable", true))
	assert.Equal(t, "SetParam:BModeSendBeam,DepthRange:0.25", SetParam(GroupBModeSendBeam, "DepthRange", 0.25))
	assert.Equal(t, "SetMode:BMODE", SetMode(ModeBMode))
	assert.Equal(t, "FireSingle:1023", FireSingle(1023))

	tx := beamform.TxCoeffs{17, 0, 0, -18, -18, 0, 0, 0}
	assert.Equal(t, "SetTxCoeffs:17,0,0,-18,-18,0,0,0", SetTxCoeffs(tx))

	rx := beamform.RxCoeffs{1, -86, -33, 1, -86, -33, 86, 55, 55, 8}
	assert.Equal(t, "SetRxCoeffs:1,-86,-33,1,-86,-33,86,55,55,8", SetRxCoeffs(rx))

	var g beamform.GroupDelayField
	g[0], g[15] = 3, 127
	assert.Equal(t, "FireGroup:29:3,0,0,0,0,0,0,0,0,0,0,0,0,0,0,127", FireGroup(29, g))
	assert.Equal(t, "SetRxGroupDelays:29:3,0,0,0,0,0,0,0,0,0,0,0,0,0,0,127", SetRxGroupDelays(29, g))

	var d beamform.DelayField
	d[1023] = 5
	fire := Fire(d)
	assert.True(t, strings.HasPrefix(fire, "Fire:0,0,"))
	assert.True(t, strings.HasSuffix(fire, ",5"))
	assert.Len(t, strings.Split(strings.TrimPrefix(fire, "Fire:"), ","), 1024)
	assert.Len(t, strings.Split(strings.TrimPrefix(SetTxDelays(d), "SetTxDelays:"), ","), 1024)
	assert.Len(t, strings.Split(strings.TrimPrefix(SetRxDelays(d), "SetRxDelays:"), ","), 1024)

	curve := beamform.DynamicReceiveCurve{}
	curve.Slope[0], curve.Duration[7], curve.Master[8] = -1, 2, 3
	assert.Equal(t, "SetDynRx:-1,0,0,0,0,0,0,0:0,0,0,0,0,0,0,2:0,0,0,0,0,0,0,0,3", SetDynRx(curve))
}

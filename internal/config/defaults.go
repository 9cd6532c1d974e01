package config

// DefaultConfig returns a Config with every field populated from the
// built-in defaults. It matches DefaultConfigPath.
func DefaultConfig() *Config {
	e := EmptyConfig()
	return &Config{
		Transducer: TransducerConfig{
			PitchNm:      ptrFloat64(e.Transducer.GetPitchNm()),
			GroupPitchNm: ptrFloat64(e.Transducer.GetGroupPitchNm()),
			SoundSpeed:   ptrFloat64(e.Transducer.GetSoundSpeed()),
			XGroups:      ptrInt(e.Transducer.GetXGroups()),
			YGroups:      ptrInt(e.Transducer.GetYGroups()),
			XElems:       ptrInt(e.Transducer.GetXElems()),
			YElems:       ptrInt(e.Transducer.GetYElems()),
		},
		Tx: TxConfig{
			L1:           ptrFloat64(e.Tx.GetL1()),
			L2:           ptrFloat64(e.Tx.GetL2()),
			L3:           ptrFloat64(e.Tx.GetL3()),
			L4Sq:         ptrFloat64(e.Tx.GetL4Sq()),
			XMax:         ptrFloat64(e.Tx.GetXMax()),
			YMax:         ptrFloat64(e.Tx.GetYMax()),
			DelayResNs:   ptrFloat64(e.Tx.GetDelayResNs()),
			OffsetHintNs: ptrFloat64(e.Tx.GetOffsetHintNs()),
		},
		Rx: RxConfig{
			L0:          ptrFloat64(e.Rx.GetL0()),
			L1:          ptrFloat64(e.Rx.GetL1()),
			L2:          ptrFloat64(e.Rx.GetL2()),
			C78Factor:   ptrFloat64(e.Rx.GetC78Factor()),
			DelayResNs:  ptrFloat64(e.Rx.GetDelayResNs()),
			StartDepthM: ptrFloat64(e.Rx.GetStartDepthM()),
			StopDepthM:  ptrFloat64(e.Rx.GetStopDepthM()),
		},
		Scan: ScanConfig{
			XMinDeg:   ptrFloat64(e.Scan.GetXMinDeg()),
			XMaxDeg:   ptrFloat64(e.Scan.GetXMaxDeg()),
			XSteps:    ptrInt(e.Scan.GetXSteps()),
			YMinDeg:   ptrFloat64(e.Scan.GetYMinDeg()),
			YMaxDeg:   ptrFloat64(e.Scan.GetYMaxDeg()),
			YSteps:    ptrInt(e.Scan.GetYSteps()),
			FocusTxM:  ptrFloat64(e.Scan.GetFocusTxM()),
			FocusRxM:  ptrFloat64(e.Scan.GetFocusRxM()),
			UseDelays: ptrBool(e.Scan.GetUseDelays()),
			Workers:   ptrInt(e.Scan.GetWorkers()),
		},
		ASIC: ASICConfig{
			Clock:            ptrString(e.ASIC.GetClock()),
			ISelLNA:          ptrInt(e.ASIC.GetISelLNA()),
			ISelOdrv:         ptrInt(e.ASIC.GetISelOdrv()),
			ISelResCtrl:      ptrInt(e.ASIC.GetISelResCtrl()),
			ISelDcGND:        ptrInt(e.ASIC.GetISelDcGND()),
			ResCal:           ptrInt(e.ASIC.GetResCal()),
			AnalogResetNoRx:  ptrBool(e.ASIC.GetAnalogResetNoRx()),
			AnalogResetAuto:  ptrBool(e.ASIC.GetAnalogResetAuto()),
			LNAAutoPowerDown: ptrBool(e.ASIC.GetLNAAutoPowerDown()),
			BiasEn:           ptrBool(e.ASIC.GetBiasEn()),
			ODrvEn:           ptrBool(e.ASIC.GetODrvEn()),
			RxAlwaysEn:       ptrBool(e.ASIC.GetRxAlwaysEn()),
			CWEn:             ptrBool(e.ASIC.GetCWEn()),
			LNAEn:            ptrBool(e.ASIC.GetLNAEn()),
			SetupTime:        ptrInt(e.ASIC.GetSetupTime()),
			RunRxTime:        ptrInt(e.ASIC.GetRunRxTime()),
			RunTxTime:        ptrInt(e.ASIC.GetRunTxTime()),
			StopTxTime:       ptrInt(e.ASIC.GetStopTxTime()),
			StopRxTime:       ptrInt(e.ASIC.GetStopRxTime()),
			AnaResetStopTime: ptrInt(e.ASIC.GetAnaResetStopTime()),
			PreChargeTime:    ptrInt(e.ASIC.GetPreChargeTime()),
			DrvEnable:        ptrBool(e.ASIC.GetDrvEnable()),
			DrvFFEn:          ptrBool(e.ASIC.GetDrvFFEn()),
			DrvBias:          ptrInt(e.ASIC.GetDrvBias()),
			BModeDepthRange:  ptrFloat64(e.ASIC.GetBModeDepthRange()),
			BModeDBRange:     ptrFloat64(e.ASIC.GetBModeDBRange()),
		},
	}
}

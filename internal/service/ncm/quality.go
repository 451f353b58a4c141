package ncm

// NegotiateQuality reconciles the requested quality with the container preference.
// An MP3 preference clamps lossless tiers down to high, because the API serves
// lossless tiers as FLAC. A FLAC preference raises lossy tiers to lossless.
// Auto leaves the request unchanged.
func NegotiateQuality(quality AudioQuality, format PreferredFormat) AudioQuality {
	switch format {
	case PreferredFormatMP3:
		if quality == AudioQualityLossless || quality == AudioQualityHiRes {
			return AudioQualityHigh
		}
	case PreferredFormatFLAC:
		if quality == AudioQualityStandard || quality == AudioQualityHigh {
			return AudioQualityLossless
		}
	case PreferredFormatAuto:
	}

	return quality
}

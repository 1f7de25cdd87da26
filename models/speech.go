package models

import (
	"fmt"

	"github.com/upb/drivel-server/utils"
)

// Text-to-speech defaults
const (
	DefaultLanguageCode = "es-ES"
	DefaultVoiceName    = "es-ES-Standard-B"
	DefaultSpeakingRate = 1.0

	// AudioEncodingMP3 is the only encoding requested from the synthesizer.
	AudioEncodingMP3 = "MP3"
	// AudioContentType is the content type of synthesized audio responses.
	AudioContentType = "audio/mp3"
)

// TTSRequest represents the body of a text-to-speech call
type TTSRequest struct {
	Text         string  `json:"text"`
	LanguageCode string  `json:"language_code"`
	Name         string  `json:"name"`
	SpeakingRate float64 `json:"speaking_rate"`
}

// NewTTSRequest returns a request pre-filled with the voice defaults
func NewTTSRequest() *TTSRequest {
	return &TTSRequest{
		LanguageCode: DefaultLanguageCode,
		Name:         DefaultVoiceName,
		SpeakingRate: DefaultSpeakingRate,
	}
}

// Validate checks text, language code, voice name and speaking rate in that
// order. minRate and maxRate are inclusive.
func (r *TTSRequest) Validate(minRate, maxRate float64) error {
	if err := utils.ValidateVar("text", r.Text, "required", "text must not be empty"); err != nil {
		return err
	}

	if err := utils.ValidateVar("language_code", r.LanguageCode, "locale",
		"language_code must be in the format: two lowercase letters, dash, two uppercase letters"); err != nil {
		return err
	}

	if err := utils.ValidateVar("name", r.Name, "startswith="+r.LanguageCode,
		fmt.Sprintf("name '%s' does not start with language_code '%s'", r.Name, r.LanguageCode)); err != nil {
		return err
	}

	return utils.ValidateNumericRange(r.SpeakingRate, "speaking_rate", minRate, maxRate)
}

// STTRequest carries an uploaded audio file and transcription options
type STTRequest struct {
	Audio       []byte
	Filename    string
	ContentType string
	Model       string
	Language    string
}

// Transcription is the speech-to-text result
type Transcription struct {
	Text string `json:"text"`
}

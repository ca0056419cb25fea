package intents

// User-facing speech shared across handlers.
const (
	NotInBostonSpeech = "This address is not in Boston. " +
		"Please use this skill with a Boston address. " +
		"See you later!"

	BadAPIResponseSpeech = "Hmm something went wrong. Maybe try again?"

	RequestAddressSpeech = "What's your address?"

	GeolocationPermissionSpeech = "Boston Info would like to use your location. " +
		"To turn on location sharing, please go to your Alexa app and " +
		"follow the instructions. Alternatively, you can provide an address " +
		"when asking a question."

	DeviceAddressPermissionSpeech = "Boston Info would like to use your device's address. " +
		"To turn on location sharing, please go to your Alexa app and " +
		"follow the instructions. Alternatively, you can provide an address " +
		"when asking a question."
)

// Trash-day speech.
const (
	PickUpDaySpeech            = "Trash and recycling is picked up on %s."
	AddressNotFoundSpeech      = "I can't seem to find %s. Please ask again with another address"
	AddressNotUnderstoodSpeech = "I didn't understand that address, could you repeat that with just the street number and name."
	MultipleAddressSpeech      = "I found multiple places with that address: %s. Which neighborhood is it in?"
)

// Feedback speech.
const (
	FeedbackPromptSpeech = "In a few sentences or less, please describe the issue or feedback."
	FeedbackThanksSpeech = "Thanks for your feedback. We appreciate you helping us improve the skill!"
	FeedbackFailedSpeech = "I had a problem saving your feedback. Please try again later."
)

// Fallback speech.
const (
	FallbackSpeech = "Sorry, I didn't catch that. You can ask about trash " +
		"pickup, city alerts, snow emergency parking, and more. What would " +
		"you like to know?"
	FallbackRepromptSpeech = "What would you like to know about Boston city services?"
)

package mqtt

import "fmt"

// Topic constants for the circadian lighting message flow
const (
	// Weather context published by external weather bridges (input)
	TopicWeatherContext = "automation/context/weather/+"

	// Circadian target context published by the agent (output)
	TopicCircadianBase = "automation/context/circadian"

	// Lighting commands consumed by fixture bridges (output)
	TopicLightCommandBase = "automation/command/light"
)

// CircadianContextTopic constructs the context topic for a location
// Pattern: automation/context/circadian/{location}
func CircadianContextTopic(location string) string {
	return fmt.Sprintf("%s/%s", TopicCircadianBase, location)
}

// LightCommandTopic constructs the command topic for a location
// Pattern: automation/command/light/{location}
func LightCommandTopic(location string) string {
	return fmt.Sprintf("%s/%s", TopicLightCommandBase, location)
}

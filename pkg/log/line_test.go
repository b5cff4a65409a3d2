package log

import "testing"

func TestLineWriterFunc(t *testing.T) {
	var got []string
	writer := LineWriterFunc(func(line string) { got = append(got, line) })

	writer.WriteLine("[PirateWeatherRelay] 5-Mar-24 09:07 ** ERROR ** boom")

	if len(got) != 1 || got[0] != "[PirateWeatherRelay] 5-Mar-24 09:07 ** ERROR ** boom" {
		t.Fatalf("unexpected lines %v", got)
	}
}

func TestNewLineWriterDoesNotPanic(t *testing.T) {
	writer := NewLineWriter()
	writer.WriteLine("[PirateWeatherRelay] 5-Mar-24 09:07 Getting data from Pirate Weather: https://api.pirateweather.net/forecast/***/1,2?units=&lang=")
	writer.WriteLine("[PirateWeatherRelay] 5-Mar-24 09:07 ** ERROR ** Request failed: Server error - Retry the request")
}

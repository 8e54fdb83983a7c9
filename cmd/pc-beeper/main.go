// Command pc-beeper plays tones on the PC speaker.
package main

import "github.com/oshokin/pc-beeper/cmd/pc-beeper/cmd"

func main() {
	cmd.Execute()
}

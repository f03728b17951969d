// Minos is a governance middleware for generative agents. It checks agent
// outputs against a versioned set of laws and, when a violation is found,
// rewrites the output rather than merely blocking it.
//
// Usage:
//
//	# Start the governance server with default configuration
//	minos run
//
//	# Start with a custom configuration file
//	minos run --config /path/to/config.yaml
//
//	# Run one compliance cycle from the command line
//	minos govern --prompt "Summarize the trial" --draft "I have a hunch we should double it."
//
//	# Validate law bundles
//	minos laws lint --path ./laws
//
//	# Show version information
//	minos version
package main

func main() {
	Execute()
}

package profile

// legacy matches the first validator: any-depth version lookup, exact text
// comparison, and only versioned file names by default.
func legacy() *Profile {
	return &Profile{
		Name:   "legacy",
		Banner: "XEREX VALIDATION v%s",
		Glob:   "*v%s.xml",
	}
}

package profile

func current() *Profile {
	return &Profile{
		Name:             "current",
		Banner:           "XEREX ROBOT INSPECTOR v%s",
		RootFirstVersion: true,
		TrimVersion:      true,
		DetailedVersion:  true,
		Glob:             "*.xml",
	}
}

package bravia

import "sort"

// commandTable maps IRCC command names, as the TV reports them in
// getRemoteControllerInfo, to their codes. It is never written after init.
var commandTable = map[string]RemoteCode{
	// Power
	"PowerOff": "AAAAAQAAAAEAAAAvAw==",
	"TvPower":  "AAAAAQAAAAEAAAAVAw==",
	"WakeUp":   "AAAAAQAAAAEAAAAuAw==",
	"Sleep":    "AAAAAQAAAAEAAAAvAw==",

	// Digits
	"Num1":  "AAAAAQAAAAEAAAAAAw==",
	"Num2":  "AAAAAQAAAAEAAAABAw==",
	"Num3":  "AAAAAQAAAAEAAAACAw==",
	"Num4":  "AAAAAQAAAAEAAAADAw==",
	"Num5":  "AAAAAQAAAAEAAAAEAw==",
	"Num6":  "AAAAAQAAAAEAAAAFAw==",
	"Num7":  "AAAAAQAAAAEAAAAGAw==",
	"Num8":  "AAAAAQAAAAEAAAAHAw==",
	"Num9":  "AAAAAQAAAAEAAAAIAw==",
	"Num0":  "AAAAAQAAAAEAAAAJAw==",
	"Num11": "AAAAAQAAAAEAAAAKAw==",
	"Num12": "AAAAAQAAAAEAAAALAw==",
	"Enter": "AAAAAQAAAAEAAAALAw==",
	"DOT":   "AAAAAgAAAJcAAAAdAw==",

	// Volume and channels
	"VolumeUp":    "AAAAAQAAAAEAAAASAw==",
	"VolumeDown":  "AAAAAQAAAAEAAAATAw==",
	"Mute":        "AAAAAQAAAAEAAAAUAw==",
	"ChannelUp":   "AAAAAQAAAAEAAAAQAw==",
	"ChannelDown": "AAAAAQAAAAEAAAARAw==",
	"Jump":        "AAAAAQAAAAEAAAA7Aw==",

	// Navigation
	"Up":          "AAAAAQAAAAEAAAB0Aw==",
	"Down":        "AAAAAQAAAAEAAAB1Aw==",
	"Left":        "AAAAAQAAAAEAAAA0Aw==",
	"Right":       "AAAAAQAAAAEAAAAzAw==",
	"Confirm":     "AAAAAQAAAAEAAABlAw==",
	"Home":        "AAAAAQAAAAEAAABgAw==",
	"Exit":        "AAAAAQAAAAEAAABjAw==",
	"Return":      "AAAAAgAAAJcAAAAjAw==",
	"Options":     "AAAAAgAAAJcAAAA2Aw==",
	"ActionMenu":  "AAAAAgAAAMQAAABLAw==",
	"Help":        "AAAAAgAAAMQAAABNAw==",
	"Display":     "AAAAAQAAAAEAAAA6Aw==",
	"GGuide":      "AAAAAQAAAAEAAAAOAw==",
	"EPG":         "AAAAAgAAAKQAAABbAw==",
	"TopMenu":     "AAAAAgAAABoAAABgAw==",
	"PopUpMenu":   "AAAAAgAAABoAAABhAw==",
	"SyncMenu":    "AAAAAgAAABoAAABYAw==",
	"iManual":     "AAAAAgAAABoAAAB7Aw==",
	"SceneSelect": "AAAAAgAAABoAAAB4Aw==",

	// Colour keys
	"Red":    "AAAAAgAAAJcAAAAlAw==",
	"Green":  "AAAAAgAAAJcAAAAmAw==",
	"Yellow": "AAAAAgAAAJcAAAAnAw==",
	"Blue":   "AAAAAgAAAJcAAAAkAw==",

	// Inputs
	"Input":          "AAAAAQAAAAEAAAAlAw==",
	"TvInput":        "AAAAAQAAAAEAAAAlAw==",
	"Tv":             "AAAAAQAAAAEAAAAkAw==",
	"TvAntennaCable": "AAAAAQAAAAEAAAAqAw==",
	"TvSatellite":    "AAAAAgAAAMQAAABOAw==",
	"Hdmi1":          "AAAAAgAAABoAAABaAw==",
	"Hdmi2":          "AAAAAgAAABoAAABbAw==",
	"Hdmi3":          "AAAAAgAAABoAAABcAw==",
	"Hdmi4":          "AAAAAgAAABoAAABdAw==",
	"Video1":         "AAAAAQAAAAEAAABAAw==",
	"Video2":         "AAAAAQAAAAEAAABBAw==",
	"Component1":     "AAAAAgAAAKQAAAA2Aw==",
	"Component2":     "AAAAAgAAAKQAAAA3Aw==",
	"Analog":         "AAAAAgAAAHcAAAANAw==",
	"Analog2":        "AAAAAQAAAAEAAAA4Aw==",
	"Digital":        "AAAAAgAAAJcAAAAyAw==",
	"BS":             "AAAAAgAAAJcAAAAsAw==",
	"CS":             "AAAAAgAAAJcAAAArAw==",
	"BSCS":           "AAAAAgAAAJcAAAAQAw==",
	"Tv_Radio":       "AAAAAgAAABoAAABXAw==",

	// Playback
	"Play":    "AAAAAgAAAJcAAAAaAw==",
	"Pause":   "AAAAAgAAAJcAAAAZAw==",
	"Stop":    "AAAAAgAAAJcAAAAYAw==",
	"Rewind":  "AAAAAgAAAJcAAAAbAw==",
	"Forward": "AAAAAgAAAJcAAAAcAw==",
	"Prev":    "AAAAAgAAAJcAAAA8Aw==",
	"Next":    "AAAAAgAAAJcAAAA9Aw==",
	"Rec":     "AAAAAgAAAJcAAAAgAw==",
	"Eject":   "AAAAAgAAAJcAAABIAw==",

	// Picture and sound
	"PicOff":        "AAAAAQAAAAEAAAA+Aw==",
	"PictureMode":   "AAAAAQAAAAEAAABkAw==",
	"Wide":          "AAAAAgAAAKQAAAA9Aw==",
	"Mode3D":        "AAAAAgAAAHcAAABNAw==",
	"Audio":         "AAAAAQAAAAEAAAAXAw==",
	"SubTitle":      "AAAAAgAAAJcAAAAoAw==",
	"ClosedCaption": "AAAAAgAAAKQAAAAQAw==",
	"Teletext":      "AAAAAQAAAAEAAAA/Aw==",
	"FootballMode":  "AAAAAgAAABoAAAB2Aw==",
	"DemoMode":      "AAAAAgAAAJcAAAB8Aw==",
	"DemoSurround":  "AAAAAgAAAHcAAAB7Aw==",
	"FlashPlus":     "AAAAAgAAAJcAAAB4Aw==",
	"FlashMinus":    "AAAAAgAAAJcAAAB5Aw==",

	// Apps
	"Netflix":    "AAAAAgAAABoAAAB8Aw==",
	"YouTube":    "AAAAAgAAAMQAAABHAw==",
	"GooglePlay": "AAAAAgAAAMQAAABGAw==",
	"Media":      "AAAAAgAAAJcAAAA4Aw==",
	"PhotoFrame": "AAAAAgAAABoAAABVAw==",
	"DUX":        "AAAAAgAAABoAAABzAw==",
	"Ddata":      "AAAAAgAAAJcAAAAVAw==",
	"PAP":        "AAAAAgAAAKQAAAB3Aw==",
	"TenKey":     "AAAAAgAAAJcAAAAMAw==",
}

// LookupCommand returns the code of a command name from the built-in table
func LookupCommand(name string) (RemoteCode, bool) {
	code, ok := commandTable[name]
	return code, ok
}

// Commands returns a copy of the built-in command table
func Commands() map[string]RemoteCode {
	out := make(map[string]RemoteCode, len(commandTable))
	for name, code := range commandTable {
		out[name] = code
	}
	return out
}

// CommandNames returns the built-in command names in sorted order
func CommandNames() []string {
	names := make([]string, 0, len(commandTable))
	for name := range commandTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

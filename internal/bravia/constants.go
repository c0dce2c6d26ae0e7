package bravia

// API Endpoints for Sony Bravia Control
const (
	SystemEndpoint     Endpoint = "/sony/system"
	AVContentEndpoint  Endpoint = "/sony/avContent"
	AudioEndpoint      Endpoint = "/sony/audio"
	AppControlEndpoint Endpoint = "/sony/appControl"
	IRCCEndpoint       Endpoint = "/sony/ircc"
)

// API Methods for Sony Bravia Control
const (
	// System Methods
	GetCurrentTime          Method = "getCurrentTime"
	GetPowerStatus          Method = "getPowerStatus"
	SetPowerStatus          Method = "setPowerStatus"
	GetSystemInformation    Method = "getSystemInformation"
	GetInterfaceInformation Method = "getInterfaceInformation"
	GetNetworkSettings      Method = "getNetworkSettings"
	GetRemoteControllerInfo Method = "getRemoteControllerInfo"

	// Audio Methods
	GetVolumeInformation Method = "getVolumeInformation"
	SetAudioVolume       Method = "setAudioVolume"
	SetAudioMute         Method = "setAudioMute"

	// AV Content Methods
	GetSourceList                  Method = "getSourceList"
	GetContentList                 Method = "getContentList"
	GetPlayingContentInfo          Method = "getPlayingContentInfo"
	GetCurrentExternalInputsStatus Method = "getCurrentExternalInputsStatus"
	SetPlayContent                 Method = "setPlayContent"

	// App Control Methods
	GetApplicationList       Method = "getApplicationList"
	GetApplicationStatusList Method = "getApplicationStatusList"
	SetActiveApp             Method = "setActiveApp"
	TerminateApps            Method = "terminateApps"
)

// API versions used by the typed operations
const (
	Version10 = "1.0"
	Version15 = "1.5"
)

// Audio targets accepted by setAudioVolume
const (
	TargetSpeaker   = "speaker"
	TargetHeadphone = "headphone"
)

// Source schemes accepted by getSourceList
const (
	SchemeExtInput = "extInput"
	SchemeTV       = "tv"
)

const (
	irccSOAPAction  = `"urn:schemas-sony-com:service:IRCC:1#X_SendIRCC"`
	irccContentType = "text/xml; charset=UTF-8"
	jsonContentType = "application/json; charset=UTF-8"
	pskHeader       = "X-Auth-PSK"
	soapHeader      = "SOAPACTION"

	defaultRequestID = 1
)

// irccEnvelope is the fixed SOAP body; %s receives the resolved code
const irccEnvelope = `<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
  <s:Body>
    <u:X_SendIRCC xmlns:u="urn:schemas-sony-com:service:IRCC:1">
      <IRCCCode>%s</IRCCCode>
    </u:X_SendIRCC>
  </s:Body>
</s:Envelope>`

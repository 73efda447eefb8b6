package entity

// Button is one inline action offered alongside a reply
type Button struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Reply is what a conversation turn hands back to the transport:
// the text plus ordered rows of buttons.
type Reply struct {
	Text    string     `json:"report_text"`
	Buttons [][]Button `json:"button_list"`
}

package entity

// Sign is one entry of the sign vocabulary.
type Sign struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Handshape   string `json:"handshape,omitempty"`
	Location    string `json:"location,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Movement    string `json:"movement,omitempty"`
	Difficulty  int    `json:"difficulty,omitempty"`
}

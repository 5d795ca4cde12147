package domain

// Book is a row of the books table. The dashboard only reads books; no
// relationship between AvailableCopies and TotalCopies is enforced.
type Book struct {
	ID              string `json:"id"                         bson:"_id,omitempty"`
	Title           string `json:"title"                      bson:"title"`
	Author          string `json:"author"                     bson:"author"`
	ISBN            string `json:"isbn,omitempty"             bson:"isbn,omitempty"`
	Publisher       string `json:"publisher,omitempty"        bson:"publisher,omitempty"`
	PublicationDate string `json:"publication_date,omitempty" bson:"publication_date,omitempty"`
	Description     string `json:"description,omitempty"      bson:"description,omitempty"`
	AvailableCopies int    `json:"available_copies"           bson:"available_copies"`
	TotalCopies     int    `json:"total_copies"               bson:"total_copies"`
}

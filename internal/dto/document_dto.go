package dto

type CreateDocumentRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=255"`
	Content   string `json:"content" validate:"required,min=1"`
	SourceURL string `json:"source_url" validate:"required,url"`
}

// PublishEmbedDocumentMessage is the payload of the embedding topic.
type PublishEmbedDocumentMessage struct {
	DocumentId string `json:"document_id"`
}

type CreateDocumentResponse struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	SourceURL string `json:"source_url"`
}

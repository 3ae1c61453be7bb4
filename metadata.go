package render

import (
	"strings"
	"time"

	"github.com/alnah/go-render/internal/dateutil"
	"github.com/alnah/go-render/internal/pdfmeta"
)

// keywordSeparator joins the Keywords tag.
const keywordSeparator = "; "

// Tag sets a PDF information tag. An empty value removes it. Tags are only
// kept on PDF renderers.
func (r *Renderer) Tag(name, value string) *Renderer {
	if r.variant == nil || r.variant.format != FormatPDF || name == "" {
		return r
	}
	if value == "" {
		delete(r.tags, name)
		return r
	}
	r.tags[name] = value
	return r
}

// Tags returns a copy of the PDF information tags.
func (r *Renderer) Tags() map[string]string {
	out := make(map[string]string, len(r.tags))
	for k, v := range r.tags {
		out[k] = v
	}
	return out
}

// Author sets the Author tag.
func (r *Renderer) Author(author string) *Renderer {
	return r.Tag(pdfmeta.TagAuthor, author)
}

// Title sets the Title tag.
func (r *Renderer) Title(title string) *Renderer {
	return r.Tag(pdfmeta.TagTitle, title)
}

// Description sets the Subject tag.
func (r *Renderer) Description(description string) *Renderer {
	return r.Tag(pdfmeta.TagSubject, description)
}

// Keywords replaces the Keywords tag.
func (r *Renderer) Keywords(keywords ...string) *Renderer {
	return r.Tag(pdfmeta.TagKeywords, strings.Join(keywords, keywordSeparator))
}

// Keyword appends one keyword unless it is already present.
func (r *Renderer) Keyword(keyword string) *Renderer {
	if keyword == "" {
		return r
	}
	var current []string
	for _, k := range strings.Split(r.tags[pdfmeta.TagKeywords], keywordSeparator) {
		if k == keyword {
			return r
		}
		if k != "" {
			current = append(current, k)
		}
	}
	return r.Keywords(append(current, keyword)...)
}

// Creator sets the Creator tag, the application that made the source.
func (r *Renderer) Creator(creator string) *Renderer {
	return r.Tag(pdfmeta.TagCreator, creator)
}

// Application sets the Producer tag.
func (r *Renderer) Application(application string) *Renderer {
	return r.Tag(pdfmeta.TagProducer, application)
}

// Created sets the CreationDate tag.
func (r *Renderer) Created(t time.Time) *Renderer {
	return r.Tag(pdfmeta.TagCreationDate, dateutil.FormatPDF(t))
}

// Modified sets the ModDate tag.
func (r *Renderer) Modified(t time.Time) *Renderer {
	return r.Tag(pdfmeta.TagModDate, dateutil.FormatPDF(t))
}

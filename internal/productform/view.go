package productform

import (
	"context"
	"strings"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// Option is one entry of a selection control.
type Option struct {
	Value  int64  `json:"value"`
	Label  string `json:"label"`
	Swatch string `json:"swatch,omitempty"`
}

// CharacteristicRow is one parameter input of the characteristics section.
type CharacteristicRow struct {
	Index       int    `json:"index"`
	ParameterID int64  `json:"parameterId"`
	Name        string `json:"name"`
	Value       string `json:"value"`
}

// Characteristics is the section listing the selected category's parameters.
// It is hidden when the category defines none.
type Characteristics struct {
	Visible bool                `json:"visible"`
	Rows    []CharacteristicRow `json:"rows"`
}

// VariantSlot is one variant sub-form with its image collection.
type VariantSlot struct {
	Index  int            `json:"index"`
	Values VariantValues  `json:"values"`
	Images []models.Image `json:"images"`
}

// Description is the editor content in its serialized and rendered forms.
type Description struct {
	Raw  string `json:"raw"`
	HTML string `json:"html"`
}

// FormView is everything a client needs to render the form.
type FormView struct {
	FormID   string `json:"formId"`
	Title    string `json:"title"`
	Loading  bool   `json:"loading"`
	EditMode bool   `json:"editMode"`

	Initial     *Values      `json:"initialValues,omitempty"`
	Description *Description `json:"description,omitempty"`

	Categories      []Option `json:"categories"`
	Brands          []Option `json:"brands"`
	Tags            []Option `json:"tags"`
	Sizes           []Option `json:"sizes"`
	Colors          []Option `json:"colors"`
	CurrentCategory *int64   `json:"currentCategory,omitempty"`

	Variants        []VariantSlot   `json:"variants"`
	Characteristics Characteristics `json:"characteristics"`

	SubmitLabel   string `json:"submitLabel"`
	SubmitLoading bool   `json:"submitLoading"`
}

// View builds the render model of the form. While an edit-mode form has no
// product yet, only the title and the loading flag are set.
func (c *Controller) View(ctx context.Context) (FormView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := FormView{
		FormID:   c.deps.FormID,
		Title:    c.props.Title,
		EditMode: c.props.EditMode,
	}
	if (c.props.IsLoading || c.props.Product == nil) && c.props.EditMode {
		view.Loading = true
		return view, nil
	}
	if err := c.ready(); err != nil {
		return FormView{}, err
	}

	initial := c.initial
	view.Initial = &initial

	editor, err := c.resolveEditor()
	if err != nil {
		return FormView{}, err
	}
	raw, err := editor.State().Serialize()
	if err != nil {
		return FormView{}, err
	}
	html, err := editor.Render()
	if err != nil {
		return FormView{}, err
	}
	view.Description = &Description{Raw: raw, HTML: html}

	view.Categories = CategoryOptions(c.props.Categories)
	view.Brands = make([]Option, 0, len(c.props.Brands))
	for _, b := range c.props.Brands {
		view.Brands = append(view.Brands, Option{Value: b.ID, Label: b.Name})
	}
	view.Tags = make([]Option, 0, len(c.props.Tags))
	for _, t := range c.props.Tags {
		view.Tags = append(view.Tags, Option{Value: t.ID, Label: t.Name})
	}
	view.Sizes = make([]Option, 0, len(c.props.Sizes))
	for _, s := range c.props.Sizes {
		view.Sizes = append(view.Sizes, Option{Value: s.ID, Label: s.Name})
	}
	view.Colors = make([]Option, 0, len(c.props.Colors))
	for _, col := range c.props.Colors {
		view.Colors = append(view.Colors, Option{Value: col.ID, Label: col.Name, Swatch: col.Code})
	}

	if c.curCategory != nil {
		id := c.curCategory.ID
		view.CurrentCategory = &id
	}

	view.Variants = make([]VariantSlot, 0, len(c.variants))
	for i, v := range c.variants {
		imgs, err := c.images.Images(ctx, i)
		if err != nil {
			return FormView{}, err
		}
		view.Variants = append(view.Variants, VariantSlot{Index: i, Values: v, Images: imgs})
	}

	view.Characteristics = characteristicsOf(c.curCategory, c.parameterProducts)

	view.SubmitLabel = "Create"
	if c.props.EditMode {
		view.SubmitLabel = "Save"
	}
	view.SubmitLoading = c.saving || c.props.IsSaveLoading
	return view, nil
}

func characteristicsOf(category *models.Category, rows []models.ParameterProduct) Characteristics {
	out := Characteristics{Rows: []CharacteristicRow{}}
	if category == nil || len(category.Parameters) == 0 {
		return out
	}
	out.Visible = true
	for i, pp := range rows {
		name := ""
		if pp.Parameter != nil {
			name = pp.Parameter.Name
		}
		out.Rows = append(out.Rows, CharacteristicRow{
			Index:       i,
			ParameterID: pp.ParameterID,
			Name:        name,
			Value:       pp.Value,
		})
	}
	return out
}

// CategoryOptions labels each category "<parent> / <name>"; root categories
// use their own name.
func CategoryOptions(categories []models.Category) []Option {
	out := make([]Option, 0, len(categories))
	for _, cat := range categories {
		label := cat.Name
		if parent := strings.TrimSpace(cat.ParentName()); parent != "" {
			label = parent + " / " + cat.Name
		}
		out = append(out, Option{Value: cat.ID, Label: label})
	}
	return out
}

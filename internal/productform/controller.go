// Package productform implements the admin product form: it binds a product
// to editable values, keeps the category characteristics and variant slots
// consistent, and assembles the save request on submit.
package productform

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/01moynul/taptosell-admin/internal/imagestate"
	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/navigation"
	"github.com/01moynul/taptosell-admin/internal/richtext"
)

// Editor is the document editor capability used for the description.
type Editor interface {
	Render() (string, error)
	State() richtext.EditorState
	SetState(richtext.EditorState)
}

// EditorResolver provides the Editor the first time the form needs it.
type EditorResolver func() (Editor, error)

// File is an uploaded image.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Uploader stores an image and returns its public URL. Delete removes an
// image it stored earlier.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
	Delete(ctx context.Context, url string) error
}

// Navigator redirects the user to an admin page.
type Navigator interface {
	NavigateTo(page navigation.Page)
}

// SaveRequest is everything the save service needs to persist the form.
type SaveRequest struct {
	ProductID         int64
	Fields            Fields
	Description       string
	Variants          []VariantValues
	VariantCount      int
	ParameterProducts []models.ParameterProduct
	Images            map[int][]models.Image
}

// Saver persists a product and navigates away on success.
type Saver interface {
	Save(ctx context.Context, nav Navigator, req SaveRequest) error
}

// Props are the inputs the hosting page passes to the form.
type Props struct {
	Title         string
	Product       *models.Product
	IsLoading     bool
	IsSaveLoading bool
	EditMode      bool
	Categories    []models.Category
	Brands        []models.Brand
	Tags          []models.Tag
	Sizes         []models.Size
	Colors        []models.Color
}

// Deps are the collaborators of the form.
type Deps struct {
	FormID     string
	ImageStore imagestate.Store
	Editor     EditorResolver
	Uploader   Uploader
	Saver      Saver
	Navigator  Navigator
	Logger     logrus.FieldLogger
}

// Controller holds the state of one open product form.
type Controller struct {
	mu    sync.Mutex
	props Props
	deps  Deps
	log   logrus.FieldLogger

	initial           Values
	curCategory       *models.Category
	parameterProducts []models.ParameterProduct
	variants          []VariantValues
	images            *imagestate.Session
	editor            Editor
	uploaded          map[string]struct{}

	saving  bool
	mounted bool
	closed  bool
}

// New returns a controller for props. Nothing is loaded until Mount.
func New(props Props, deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		props:             props,
		deps:              deps,
		log:               logger.WithField("form_id", deps.FormID),
		initial:           InitialValues(props.Product),
		parameterProducts: []models.ParameterProduct{},
		variants:          []VariantValues{},
	}
}

// FormID returns the id the controller's image state is keyed by.
func (c *Controller) FormID() string { return c.deps.FormID }

// Mount acquires the image state and loads the product passed in Props.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.mounted {
		return nil
	}
	if err := c.load(ctx, c.props.Product, c.props.IsLoading); err != nil {
		return err
	}
	c.mounted = true
	return nil
}

// Load replaces the product being edited, e.g. once it has finished loading.
// The image state of the previous product is released first.
func (c *Controller) Load(ctx context.Context, product *models.Product, isLoading bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.props.Product = product
	c.props.IsLoading = isLoading
	c.initial = InitialValues(product)
	if err := c.load(ctx, product, isLoading); err != nil {
		return err
	}
	c.mounted = true
	return nil
}

func (c *Controller) load(ctx context.Context, product *models.Product, isLoading bool) error {
	if c.images != nil {
		if err := c.images.Release(ctx); err != nil {
			return fmt.Errorf("release image state: %w", err)
		}
	}
	c.images = imagestate.Acquire(c.deps.ImageStore, c.deps.FormID)
	c.uploaded = nil

	// 1. --- Seed variant images ---
	if product != nil {
		for index := range product.ProductVariants {
			for _, img := range c.initial.VariantImages[index] {
				if err := c.images.SetDefault(ctx, index, img); err != nil {
					return fmt.Errorf("seed images of variant %d: %w", index, err)
				}
			}
		}
	}

	// 2. --- Category and characteristics ---
	c.curCategory = nil
	var stored []models.ParameterProduct
	if product != nil {
		c.curCategory = product.Category
		if c.curCategory == nil && product.CategoryID != nil {
			c.curCategory = FindCategory(c.props.Categories, *product.CategoryID)
		}
		stored = product.ParameterProducts
	}
	c.parameterProducts = SyncParameters(c.curCategory, stored)

	// 3. --- Variant slots ---
	c.variants = append([]VariantValues{}, c.initial.Variants...)

	// 4. --- Description ---
	if isLoading {
		return nil
	}
	if product == nil {
		if c.editor != nil {
			c.editor.SetState(richtext.EmptyState())
		}
		return nil
	}
	res := richtext.Parse(product.Desc)
	state := richtext.EmptyState()
	switch res.Kind {
	case richtext.Valid:
		state = richtext.StateWithContent(res.Document)
	case richtext.Invalid:
		c.log.WithField("product_id", product.ID).Debug("stored description is not a document, starting with an empty editor")
	}
	editor, err := c.resolveEditor()
	if err != nil {
		return err
	}
	editor.SetState(state)
	return nil
}

func (c *Controller) resolveEditor() (Editor, error) {
	if c.editor != nil {
		return c.editor, nil
	}
	if c.deps.Editor == nil {
		c.editor = richtext.NewEditor()
		return c.editor, nil
	}
	editor, err := c.deps.Editor()
	if err != nil {
		return nil, fmt.Errorf("resolve editor: %w", err)
	}
	c.editor = editor
	return editor, nil
}

func (c *Controller) ready() error {
	if c.closed {
		return ErrClosed
	}
	if !c.mounted {
		return ErrNotMounted
	}
	return nil
}

// ChangeCategory selects the category with categoryID and rebuilds the
// characteristics rows for it, keeping values of parameters that still apply.
// An unknown id clears the selection.
func (c *Controller) ChangeCategory(categoryID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ready(); err != nil {
		return err
	}
	category := FindCategory(c.props.Categories, categoryID)
	c.parameterProducts = SyncParameters(category, c.parameterProducts)
	c.curCategory = category

	c.log.WithFields(logrus.Fields{
		"category_id": categoryID,
		"parameters":  len(c.parameterProducts),
	}).Debug("category changed")
	return nil
}

// CurrentCategory returns the selected category, or nil.
func (c *Controller) CurrentCategory() *models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.curCategory
}

// ParameterProducts returns a copy of the characteristics rows.
func (c *Controller) ParameterProducts() []models.ParameterProduct {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ParameterProduct{}, c.parameterProducts...)
}

// ParameterChange returns an updater that sets the value of the row at index.
// The updater does nothing once the form is unmounted.
func (c *Controller) ParameterChange(index int) func(value string) {
	return func(value string) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.ready() != nil {
			return
		}
		c.parameterProducts = UpdateParameterValue(c.parameterProducts, index, value)
	}
}

// AddVariant appends a blank variant slot and returns its index.
func (c *Controller) AddVariant() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ready(); err != nil {
		return 0, err
	}
	c.variants = append(c.variants, VariantValues{})
	return len(c.variants) - 1, nil
}

// VariantCount returns the number of variant slots.
func (c *Controller) VariantCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.variants)
}

// UpdateVariant replaces the values of the variant slot at index.
func (c *Controller) UpdateVariant(index int, values VariantValues) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ready(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.variants) {
		return ErrVariantIndex
	}
	c.variants[index] = values
	return nil
}

// VariantImages returns the image list of the variant slot at index.
func (c *Controller) VariantImages(ctx context.Context, index int) ([]models.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkVariant(index); err != nil {
		return nil, err
	}
	return c.images.Images(ctx, index)
}

// AddVariantImage appends img to the variant slot at index.
func (c *Controller) AddVariantImage(ctx context.Context, index int, img models.Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkVariant(index); err != nil {
		return err
	}
	return c.images.SetDefault(ctx, index, img)
}

// RemoveVariantImage drops the image at position from the variant slot at
// index. Images uploaded through this form are deleted from storage as well.
func (c *Controller) RemoveVariantImage(ctx context.Context, index, position int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkVariant(index); err != nil {
		return err
	}
	imgs, err := c.images.Images(ctx, index)
	if err != nil {
		return err
	}
	if position < 0 || position >= len(imgs) {
		return ErrImagePosition
	}
	removed := imgs[position]
	imgs = append(imgs[:position], imgs[position+1:]...)
	if err := c.images.Replace(ctx, index, imgs); err != nil {
		return err
	}

	if _, ok := c.uploaded[removed.Filename]; !ok {
		return nil
	}
	delete(c.uploaded, removed.Filename)
	if err := c.deps.Uploader.Delete(ctx, removed.Filename); err != nil {
		c.log.WithError(err).WithField("url", removed.Filename).Warn("failed to delete removed image")
	}
	return nil
}

// UploadVariantImage stores f through the uploader and appends it to the
// variant slot at index.
func (c *Controller) UploadVariantImage(ctx context.Context, index int, f File) (models.Image, error) {
	c.mu.Lock()
	if err := c.checkVariant(index); err != nil {
		c.mu.Unlock()
		return models.Image{}, err
	}
	c.mu.Unlock()

	url, err := c.upload(ctx, f)
	if err != nil {
		return models.Image{}, err
	}
	img := models.Image{Filename: url, OriginalName: f.Name}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.checkVariant(index)
	if err == nil {
		err = c.images.SetDefault(ctx, index, img)
	}
	if err != nil {
		if delErr := c.deps.Uploader.Delete(ctx, url); delErr != nil {
			c.log.WithError(delErr).WithField("url", url).Warn("failed to delete orphaned upload")
		}
		return models.Image{}, err
	}
	if c.uploaded == nil {
		c.uploaded = make(map[string]struct{})
	}
	c.uploaded[url] = struct{}{}
	return img, nil
}

// UploadImage stores an image inserted into the description and returns its URL.
func (c *Controller) UploadImage(ctx context.Context, f File) (string, error) {
	c.mu.Lock()
	err := c.ready()
	c.mu.Unlock()
	if err != nil {
		return "", err
	}
	return c.upload(ctx, f)
}

func (c *Controller) upload(ctx context.Context, f File) (string, error) {
	if c.deps.Uploader == nil {
		return "", ErrNoUploader
	}
	url, err := c.deps.Uploader.Upload(ctx, f)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", f.Name, err)
	}
	return url, nil
}

func (c *Controller) checkVariant(index int) error {
	if err := c.ready(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.variants) {
		return ErrVariantIndex
	}
	return nil
}

// SetDescription replaces the editor content with a serialized document.
func (c *Controller) SetDescription(serialized string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ready(); err != nil {
		return err
	}
	res := richtext.Parse(serialized)
	var state richtext.EditorState
	switch res.Kind {
	case richtext.Valid:
		state = richtext.StateWithContent(res.Document)
	case richtext.Empty:
		state = richtext.EmptyState()
	default:
		return ErrInvalidDescription
	}

	editor, err := c.resolveEditor()
	if err != nil {
		return err
	}
	editor.SetState(state)
	return nil
}

// EditorState returns the current description state.
func (c *Controller) EditorState() (richtext.EditorState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	editor, err := c.resolveEditor()
	if err != nil {
		return richtext.EditorState{}, err
	}
	return editor.State(), nil
}

// Submit assembles the save request from fields and the form state and hands
// it to the saver. The save-loading flag is raised for the duration of the call.
func (c *Controller) Submit(ctx context.Context, fields Fields) error {
	c.mu.Lock()
	if err := c.ready(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInProgress
	}
	if c.deps.Saver == nil {
		c.mu.Unlock()
		return ErrNoSaver
	}
	req, err := c.buildSaveRequest(ctx, fields)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.saving = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.saving = false
		c.mu.Unlock()
	}()

	log := c.log.WithFields(logrus.Fields{
		"product_id": req.ProductID,
		"variants":   req.VariantCount,
		"parameters": len(req.ParameterProducts),
	})
	log.Info("submitting product form")

	if err := c.deps.Saver.Save(ctx, c.deps.Navigator, req); err != nil {
		log.WithError(err).Warn("product save failed")
		return err
	}
	return nil
}

func (c *Controller) buildSaveRequest(ctx context.Context, fields Fields) (SaveRequest, error) {
	editor, err := c.resolveEditor()
	if err != nil {
		return SaveRequest{}, err
	}
	desc, err := editor.State().Serialize()
	if err != nil {
		return SaveRequest{}, fmt.Errorf("serialize description: %w", err)
	}
	snapshot, err := c.images.Snapshot(ctx)
	if err != nil {
		return SaveRequest{}, fmt.Errorf("snapshot images: %w", err)
	}

	req := SaveRequest{
		Fields:            fields,
		Description:       desc,
		Variants:          append([]VariantValues{}, c.variants...),
		VariantCount:      len(c.variants),
		ParameterProducts: append([]models.ParameterProduct{}, c.parameterProducts...),
		Images:            snapshot,
	}
	if c.props.EditMode && c.props.Product != nil {
		req.ProductID = c.props.Product.ID
	}
	return req, nil
}

// GoBack sends the user back to the product list.
func (c *Controller) GoBack() {
	if c.deps.Navigator != nil {
		c.deps.Navigator.NavigateTo(navigation.AdminProducts)
	}
}

// Unmount releases the image state of the form. It runs whether or not the
// form was submitted and may be called more than once; a call after a failed
// release retries it.
func (c *Controller) Unmount(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.images == nil {
		return nil
	}
	if err := c.images.Release(ctx); err != nil {
		return fmt.Errorf("release image state: %w", err)
	}
	c.images = nil
	c.log.Debug("product form unmounted")
	return nil
}

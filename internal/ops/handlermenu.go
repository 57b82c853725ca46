package ops

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

const maxMenuImageSize = 5 << 20

type menuPageState struct {
	Error   string
	Success string
}

// MenuItems renders the menu management view, optionally narrowed to one
// category.
func (h *Handler) MenuItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.MenuItems")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	state := menuPageState{}
	query := r.URL.Query()
	if query.Get("created") == "1" {
		state.Success = "Menu item created successfully."
	} else if query.Get("updated") == "1" {
		state.Success = "Menu item updated successfully."
	} else if query.Get("deleted") == "1" {
		state.Success = "Menu item deleted successfully."
	}

	var categoryID int64
	if raw := query.Get("category_id"); raw != "" {
		if parsed, err := parseID(raw); err == nil {
			categoryID = parsed
		}
	}

	h.renderMenuPage(w, r, categoryID, state)
}

func (h *Handler) renderMenuPage(w http.ResponseWriter, r *http.Request, categoryID int64, state menuPageState) {
	items, err := h.menu.ListMenuItems(r.Context(), categoryID)
	if err != nil {
		h.log().Error("cannot load menu items", "error", err)
		if state.Error == "" {
			state.Error = "Could not load menu items right now."
		}
	}

	categories, err := h.menu.ListCategories(r.Context())
	if err != nil {
		h.log().Debug("cannot load categories for menu view", "error", err)
	}

	data := map[string]interface{}{
		"Title":      "Menu",
		"Template":   "menu",
		"MenuItems":  items,
		"Categories": categories,
		"CategoryID": categoryID,
		"Error":      state.Error,
		"Success":    state.Success,
	}

	h.renderTemplate(w, "menu.html", "base.html", data)
}

// parseMenuItemForm reads the multipart submission shared by create and
// update. The image is optional.
func (h *Handler) parseMenuItemForm(r *http.Request) (MenuItemForm, string) {
	if err := r.ParseMultipartForm(maxMenuImageSize); err != nil {
		return MenuItemForm{}, "Could not read the submitted form."
	}

	form := MenuItemForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		Available:   r.FormValue("available") == "1",
	}

	if form.Name == "" {
		return form, "Name is required."
	}

	categoryID, err := parseID(r.FormValue("category_id"))
	if err != nil {
		return form, "Please choose a category."
	}
	form.CategoryID = categoryID

	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil || price < 0 {
		return form, "Price must be a non-negative number."
	}
	form.Price = price

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxMenuImageSize))
		if err != nil {
			return form, "Could not read the uploaded image."
		}
		form.Image = &FormFile{
			FieldName: "image",
			FileName:  header.Filename,
			Data:      data,
		}
	}

	return form, ""
}

// CreateMenuItem creates a menu item from the multipart form.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateMenuItem")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	form, problem := h.parseMenuItemForm(r)
	if problem != "" {
		h.renderMenuPage(w, r, 0, menuPageState{Error: problem})
		return
	}

	_, err := h.menu.CreateMenuItem(r.Context(), form)
	h.auditLogger.LogAction(r.Context(), session.Role, "create-menu-item", form.Name, err)
	if err != nil {
		h.log().Error("menu item create failed", "error", err)
		h.renderMenuPage(w, r, 0, menuPageState{Error: BackendMessage(err, "Could not create the menu item right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/menu?created=1")
}

// EditMenuItemForm serves the edit form for one menu item.
func (h *Handler) EditMenuItemForm(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.EditMenuItemForm")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	}

	items, err := h.menu.ListMenuItems(r.Context(), 0)
	if err != nil {
		h.renderMenuPage(w, r, 0, menuPageState{Error: "Could not load the menu item right now."})
		return
	}

	var current *menuItemResource
	for i := range items {
		if items[i].ID == id {
			current = &items[i]
			break
		}
	}
	if current == nil {
		h.renderMenuPage(w, r, 0, menuPageState{Error: "Menu item not found. It may have been deleted."})
		return
	}

	categories, err := h.menu.ListCategories(r.Context())
	if err != nil {
		h.log().Debug("cannot load categories for menu form", "error", err)
	}

	data := map[string]interface{}{
		"Title":      "Edit menu item",
		"Template":   "menu_item_form",
		"Item":       current,
		"Categories": categories,
	}

	h.renderTemplate(w, "menu_item_form.html", "base.html", data)
}

// UpdateMenuItem updates a menu item from the multipart form. A missing
// image keeps the current one.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateMenuItem")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	}

	form, problem := h.parseMenuItemForm(r)
	if problem != "" {
		h.renderMenuPage(w, r, 0, menuPageState{Error: problem})
		return
	}

	_, err = h.menu.UpdateMenuItem(r.Context(), id, form)
	h.auditLogger.LogAction(r.Context(), session.Role, "update-menu-item", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("menu item update failed", "error", err, "item_id", id)
		h.renderMenuPage(w, r, 0, menuPageState{Error: BackendMessage(err, "Could not update the menu item right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/menu?updated=1")
}

// ToggleMenuItemAvailability flips the availability flag.
func (h *Handler) ToggleMenuItemAvailability(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ToggleMenuItemAvailability")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	}

	available := r.FormValue("available") == "1"

	_, err = h.menu.SetAvailability(r.Context(), id, available)
	h.auditLogger.LogAction(r.Context(), session.Role, "set-menu-item-availability", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("availability toggle failed", "error", err, "item_id", id)
		h.renderMenuPage(w, r, 0, menuPageState{Error: BackendMessage(err, "Could not update availability right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/menu?updated=1")
}

// DeleteMenuItem removes a menu item.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
		return
	}

	_, err = h.menu.DeleteMenuItem(r.Context(), id)
	h.auditLogger.LogAction(r.Context(), session.Role, "delete-menu-item", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("menu item delete failed", "error", err, "item_id", id)
		h.renderMenuPage(w, r, 0, menuPageState{Error: BackendMessage(err, "Could not delete the menu item right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/menu?deleted=1")
}

// Categories renders the category management view.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Categories")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	state := menuPageState{}
	query := r.URL.Query()
	if query.Get("created") == "1" {
		state.Success = "Category created successfully."
	} else if query.Get("updated") == "1" {
		state.Success = "Category updated successfully."
	} else if query.Get("deleted") == "1" {
		state.Success = "Category deleted successfully."
	}

	h.renderCategoriesPage(w, r, state)
}

func (h *Handler) renderCategoriesPage(w http.ResponseWriter, r *http.Request, state menuPageState) {
	categories, err := h.menu.ListCategories(r.Context())
	if err != nil {
		h.log().Error("cannot load categories", "error", err)
		if state.Error == "" {
			state.Error = "Could not load categories right now."
		}
	}

	data := map[string]interface{}{
		"Title":      "Categories",
		"Template":   "categories",
		"Categories": categories,
		"Error":      state.Error,
		"Success":    state.Success,
	}

	h.renderTemplate(w, "categories.html", "base.html", data)
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateCategory")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.renderCategoriesPage(w, r, menuPageState{Error: "Category name is required."})
		return
	}

	_, err := h.menu.CreateCategory(r.Context(), name)
	h.auditLogger.LogAction(r.Context(), session.Role, "create-category", name, err)
	if err != nil {
		h.log().Error("category create failed", "error", err)
		h.renderCategoriesPage(w, r, menuPageState{Error: BackendMessage(err, "Could not create the category right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/categories?created=1")
}

// UpdateCategory renames a category.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateCategory")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.renderCategoriesPage(w, r, menuPageState{Error: "Category name is required."})
		return
	}

	_, err = h.menu.UpdateCategory(r.Context(), id, name)
	h.auditLogger.LogAction(r.Context(), session.Role, "update-category", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("category update failed", "error", err, "category_id", id)
		h.renderCategoriesPage(w, r, menuPageState{Error: BackendMessage(err, "Could not update the category right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/categories?updated=1")
}

// DeleteCategory removes a category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteCategory")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
		return
	}

	_, err = h.menu.DeleteCategory(r.Context(), id)
	h.auditLogger.LogAction(r.Context(), session.Role, "delete-category", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("category delete failed", "error", err, "category_id", id)
		h.renderCategoriesPage(w, r, menuPageState{Error: BackendMessage(err, "Could not delete the category right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/categories?deleted=1")
}

package document

import "slices"

// Document is an ordered list of canvas objects. Later objects paint on
// top of earlier ones.
type Document struct {
	objects []*CanvasObject
}

func New(objects ...*CanvasObject) *Document {
	return &Document{objects: slices.Clone(objects)}
}

// Append places obj on top of every other object.
func (d *Document) Append(obj *CanvasObject) {
	d.objects = append(d.objects, obj)
}

// Remove deletes the object with the given id and reports whether it existed.
func (d *Document) Remove(id string) bool {
	i := d.IndexOf(id)
	if i < 0 {
		return false
	}
	d.objects = slices.Delete(d.objects, i, i+1)
	return true
}

// Lookup returns the object with the given id, or nil.
func (d *Document) Lookup(id string) *CanvasObject {
	if i := d.IndexOf(id); i >= 0 {
		return d.objects[i]
	}
	return nil
}

func (d *Document) IndexOf(id string) int {
	return slices.IndexFunc(d.objects, func(o *CanvasObject) bool { return o.ID == id })
}

// Clear drops every object.
func (d *Document) Clear() {
	d.objects = nil
}

// Replace swaps the whole object list in one step.
func (d *Document) Replace(objects []*CanvasObject) {
	d.objects = slices.Clone(objects)
}

// Objects returns the objects in paint order. The slice is a copy; the
// objects are shared.
func (d *Document) Objects() []*CanvasObject {
	return slices.Clone(d.objects)
}

func (d *Document) Len() int {
	return len(d.objects)
}

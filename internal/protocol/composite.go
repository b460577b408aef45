package protocol

// ReadOptional reads a boolean presence byte, then decodes T if present.
func ReadOptional[T any](r *Reader, decode func(*Reader) (T, error)) (*T, error) {
	present, err := r.Bool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := decode(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// WriteOptional writes the presence byte followed by v's encoding, if v is
// non-nil.
func WriteOptional[T any](w *Writer, v *T, encode func(*Writer, T)) {
	w.Bool(v != nil)
	if v != nil {
		encode(w, *v)
	}
}

// ReadList reads a VarInt count followed by that many T.
func ReadList[T any](r *Reader, decode func(*Reader) (T, error)) ([]T, error) {
	count, err := r.VarInt()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, newErr(KindBadPacket, "negative list count")
	}
	out := make([]T, 0, count)
	for i := int32(0); i < count; i++ {
		v, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteList writes a VarInt count followed by each element's encoding.
func WriteList[T any](w *Writer, items []T, encode func(*Writer, T)) {
	w.VarInt(int32(len(items)))
	for _, v := range items {
		encode(w, v)
	}
}

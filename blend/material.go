package blend

// Material property names written by ApplyTo.
const (
	PropSrcBlend = "_SrcBlend"
	PropDstBlend = "_DstBlend"
	PropZWrite   = "_ZWrite"
)

// MaterialWriter is the render-state surface of a material.
type MaterialWriter interface {
	SetInt(name string, v int)
	EnableKeyword(name string)
	DisableKeyword(name string)
	SetRenderQueue(queue int)
}

// ApplyTo writes p into m. Keywords not in p are disabled.
func (p Parameters) ApplyTo(m MaterialWriter) {
	if m == nil {
		return
	}
	m.SetInt(PropSrcBlend, int(p.Src))
	m.SetInt(PropDstBlend, int(p.Dst))
	zwrite := 0
	if p.DepthWrite {
		zwrite = 1
	}
	m.SetInt(PropZWrite, zwrite)
	for _, n := range keywordNames {
		if p.Keywords.Has(n.kw) {
			m.EnableKeyword(n.name)
		} else {
			m.DisableKeyword(n.name)
		}
	}
	m.SetRenderQueue(p.RenderQueue)
}

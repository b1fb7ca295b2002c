package reconcile

// View is a top-level screen of the client.
type View int

const (
	ViewLanding View = iota
	ViewRoom
)

func (v View) String() string {
	if v == ViewRoom {
		return "room"
	}
	return "landing"
}

// NoticeKind classifies user-facing notices.
type NoticeKind int

const (
	// NoticeValidation is a local input problem; nothing was sent.
	NoticeValidation NoticeKind = iota
	// NoticeServerRejection is an error reported by the server.
	NoticeServerRejection
	// NoticeConnectionLost is terminal: the transport closed while in a room.
	NoticeConnectionLost
	// NoticeLocal is an advisory refusal by the client itself.
	NoticeLocal
)

// Notice is the single user-notification primitive every failure ends up as.
type Notice struct {
	Kind    NoticeKind
	Message string
	Fatal   bool
}

// Directive is a UI instruction produced alongside a store mutation.
// The set is closed: Navigate and Notify.
type Directive interface {
	directive()
}

// Navigate switches the visible screen.
type Navigate struct {
	To View
}

// Notify surfaces a notice to the user.
type Notify struct {
	Notice Notice
}

func (Navigate) directive() {}
func (Notify) directive()   {}

// Result is what one reconciliation step produced.
type Result struct {
	Directives []Directive

	RoomChanged bool
	GameChanged bool
	ChatChanged bool
	LogChanged  bool
	ConnChanged bool
}

// NeedsRender reports whether anything visible changed.
func (r Result) NeedsRender() bool {
	return r.RoomChanged || r.GameChanged || r.ChatChanged || r.LogChanged || r.ConnChanged || len(r.Directives) > 0
}

// Merge folds other into r.
func (r Result) Merge(other Result) Result {
	r.Directives = append(r.Directives, other.Directives...)
	r.RoomChanged = r.RoomChanged || other.RoomChanged
	r.GameChanged = r.GameChanged || other.GameChanged
	r.ChatChanged = r.ChatChanged || other.ChatChanged
	r.LogChanged = r.LogChanged || other.LogChanged
	r.ConnChanged = r.ConnChanged || other.ConnChanged
	return r
}

// Notices returns the notices carried by the result, in order.
func (r Result) Notices() []Notice {
	var out []Notice
	for _, d := range r.Directives {
		if n, ok := d.(Notify); ok {
			out = append(out, n.Notice)
		}
	}
	return out
}

func notify(kind NoticeKind, msg string, fatal bool) Directive {
	return Notify{Notice: Notice{Kind: kind, Message: msg, Fatal: fatal}}
}

// NotifyResult wraps a single notice in a Result.
func NotifyResult(kind NoticeKind, msg string) Result {
	return Result{Directives: []Directive{notify(kind, msg, false)}}
}

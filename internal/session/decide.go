package session

type Requirement int

const (
	RequireNone Requirement = iota
	RequireSession
	RequireAdmin
)

type Decision int

const (
	DecisionPending Decision = iota
	DecisionRender
	DecisionRedirectSignIn
	DecisionRedirectHome
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionRender:
		return "render"
	case DecisionRedirectSignIn:
		return "redirect_sign_in"
	case DecisionRedirectHome:
		return "redirect_home"
	}
	return "unknown"
}

// 解決中は何も出さない。管理者判定が終わるまで管理画面は出さない
func Decide(req Requirement, st State) Decision {
	if req == RequireNone {
		return DecisionRender
	}
	if st.Pending {
		return DecisionPending
	}
	if st.Session == nil {
		return DecisionRedirectSignIn
	}
	if req == RequireAdmin && !st.IsAdmin {
		return DecisionRedirectHome
	}
	return DecisionRender
}

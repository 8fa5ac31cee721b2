package api

import (
	"tractor-lite/replay"
	"tractor-lite/tractor"
)

// User 账号信息，来自 /login、/register、/user
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	CreatedAt string `json:"created_at"`
}

type baseResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (r baseResponse) ok() (bool, string) { return r.Success, r.Error }

// statusEnvelope 所有服务端响应都带 success/error 外壳
type statusEnvelope interface {
	ok() (bool, string)
}

type authResponse struct {
	baseResponse
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type userResponse struct {
	baseResponse
	User *User `json:"user"`
}

type createGameResponse struct {
	baseResponse
	GameID string                `json:"gameId"`
	Game   *tractor.WireTableView `json:"game"`
}

type tableResponse struct {
	baseResponse
	Game *tractor.WireTableView `json:"game"`
}

type replayResponse struct {
	baseResponse
	Replay *replay.WireReplay `json:"replay"`
}

type actionsResponse struct {
	baseResponse
	Actions []replay.WireAction `json:"actions"`
	Count   int                 `json:"count"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createGameRequest struct {
	Name string `json:"name"`
}

type callDealerRequest struct {
	Suit        string `json:"suit"`
	CardIndices []int  `json:"cardIndices"`
}

type discardRequest struct {
	CardIndices []int `json:"cardIndices"`
}

type callFriendRequest struct {
	Suit     string `json:"suit"`
	Value    string `json:"value"`
	Position int    `json:"position"`
}

type playRequest struct {
	CardIndices []int `json:"cardIndices"`
}

package controller

import "github.com/vidroom/server/pkg/wsrouter"

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(
		c.requestIdWSMw(),
		c.loggerWSMw(),
		c.roomLockWSMw(),
	)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)
	wsrouter.Handle(mux, "CHAT_MESSAGE", c.handleChatMessage)
	wsrouter.Handle(mux, "LOAD_VIDEO", c.handleLoadVideo)
	wsrouter.Handle(mux, "VIDEO_ACTION", c.handleVideoAction)
	wsrouter.Handle(mux, "WEBRTC_OFFER", c.handleWebrtcSignal)
	wsrouter.Handle(mux, "WEBRTC_ANSWER", c.handleWebrtcSignal)
	wsrouter.Handle(mux, "WEBRTC_ICE_CANDIDATE", c.handleWebrtcSignal)

	return mux
}

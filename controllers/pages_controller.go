package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "username"

type PagesControllerI interface {
	Home(ctx *gin.Context)
	Terms(ctx *gin.Context)
	Signup(ctx *gin.Context)
	Login(ctx *gin.Context)
	Logout(ctx *gin.Context)
}

type pagesController struct{}

var PagesController PagesControllerI = &pagesController{}

func (p *pagesController) Home(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "home.html", gin.H{"Title": ""})
}

func (p *pagesController) Terms(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "terms.html", gin.H{"Title": "Terms"})
}

func (p *pagesController) Signup(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
}

func (p *pagesController) Login(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

// Logout drops the session cookie and sends the user home.
func (p *pagesController) Logout(ctx *gin.Context) {
	ctx.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	ctx.Redirect(http.StatusFound, "/")
}

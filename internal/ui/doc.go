// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The [App] routes between four screens:
//  1. [RouteRegister] : sign up and store the session (the entry route)
//  2. [RouteList] : paginated grid of movies with logout
//  3. [RouteCreate] : new movie form with optional poster
//  4. [RouteEdit] : load, update or delete one movie
//
// Every navigation re-checks the session store; without a token the app lands on the register
// screen before any request is sent. Screens run requests as commands and receive the results as
// [Msg] values tagged with the screen generation that issued them, so results for a screen that is
// no longer displayed are dropped by the router.
//
// Text fields use charmbracelet/bubbles/textinput, so screen shortcuts on forms are ctrl chords;
// contextual help is rendered via charmbracelet/bubbles/help.
package ui

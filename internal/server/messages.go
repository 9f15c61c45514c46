package server

// Client-facing response messages.
const (
	msgSignUpSuccess    = "User registered successfully."
	msgLoginSuccess     = "Login successful."
	msgProfileRetrieved = "Profile retrieved successfully."

	msgDuplicateEmail = "Email is already registered."
	msgUserNotFound   = "User not found."
	msgWrongPassword  = "Incorrect password."
	msgTokenMissing   = "A token is required for authentication."
	msgUnauthorized   = "Invalid or expired token."

	msgBookAdded   = "Book added successfully."
	msgBookFetched = "Books fetched successfully."
	msgBookUpdated = "Book updated successfully."
	msgBookDeleted = "Book deleted successfully."

	msgBookNotFound     = "Book not found."
	msgBookUpdateFailed = "Unable to update book."
	msgBookDeleteFailed = "Unable to delete book."

	msgInvalidJSON     = "Invalid JSON body."
	msgInvalidForm     = "Invalid form data."
	msgUnsupportedFile = "Unsupported image type."
	msgGenericError    = "Something went wrong. Please try again later."

	msgTooManyLogins    = "Too many login attempts."
	msgTooManyRegisters = "Too many registration attempts."
)
